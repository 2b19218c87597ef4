package cards

// Stack represents an ordered collection of playing cards
type Stack []Card

func (s Stack) String() string {
	var out string
	for i, c := range s {
		if i > 0 {
			out += " "
		}
		out += c.String()
	}
	return out
}

// Contains checks whether the stack holds the given card
func (s Stack) Contains(card Card) bool {
	for _, c := range s {
		if c.Equals(card) {
			return true
		}
	}
	return false
}

// Copy returns a shallow copy of the stack
func (s Stack) Copy() Stack {
	out := make(Stack, len(s))
	copy(out, s)
	return out
}

// StackFromStrings builds a stack from card shorthands (e.g. "As", "10h").
func StackFromStrings(shorthands ...string) (Stack, error) {
	stack := make(Stack, 0, len(shorthands))
	for _, s := range shorthands {
		card, err := CardFromString(s)
		if err != nil {
			return nil, err
		}
		stack = append(stack, card)
	}
	return stack, nil
}

// MustStack is StackFromStrings that panics on invalid input. Test helper.
func MustStack(shorthands ...string) Stack {
	stack, err := StackFromStrings(shorthands...)
	if err != nil {
		panic(err)
	}
	return stack
}
