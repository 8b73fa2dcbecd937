package billing

import "fmt"

// NumberTaken reports whether a document number is already assigned
type NumberTaken func(number string) bool

// FormatInvoiceNumber renders {prefix}{counter:04d}
func FormatInvoiceNumber(prefix string, counter int) string {
	return fmt.Sprintf("%s%04d", prefix, counter)
}

// NextInvoiceNumber walks forward from the stored counter until it finds a
// number nobody holds. It returns that number and the counter to persist,
// which is one past the winner so numbers skipped over are never handed out.
func NextInvoiceNumber(prefix string, counter int, taken NumberTaken) (string, int) {
	if counter < 1 {
		counter = 1
	}
	for {
		candidate := FormatInvoiceNumber(prefix, counter)
		if !taken(candidate) {
			return candidate, counter + 1
		}
		counter++
	}
}

// NextQuoteNumber returns Q-{count+1:03d}, stepping past any collision
func NextQuoteNumber(existingCount int, taken NumberTaken) string {
	return NextOrdinalNumber("Q-", 3, existingCount, taken)
}

// NextOrdinalNumber numbers a document by its position in the collection,
// zero-padded to width, moving on while the candidate is taken.
func NextOrdinalNumber(prefix string, width, existingCount int, taken NumberTaken) string {
	ordinal := existingCount + 1
	for {
		candidate := fmt.Sprintf("%s%0*d", prefix, width, ordinal)
		if !taken(candidate) {
			return candidate
		}
		ordinal++
	}
}

// NumberSet builds a NumberTaken from a list of assigned numbers
func NumberSet(numbers []string) NumberTaken {
	set := make(map[string]struct{}, len(numbers))
	for _, n := range numbers {
		set[n] = struct{}{}
	}
	return func(number string) bool {
		_, ok := set[number]
		return ok
	}
}
