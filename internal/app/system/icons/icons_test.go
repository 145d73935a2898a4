package icons

import "testing"

func TestValid(t *testing.T) {
	for _, k := range Keys {
		if !Valid(k) {
			t.Errorf("Valid(%q) = false, want true", k)
		}
	}
	for _, k := range []string{"", "rocket", "BOOK-OPEN", "book_open"} {
		if Valid(k) {
			t.Errorf("Valid(%q) = true, want false", k)
		}
	}
}

func TestDefaultIconIsValid(t *testing.T) {
	if !Valid(DefaultIcon) {
		t.Fatalf("DefaultIcon %q is not in Keys", DefaultIcon)
	}
}
