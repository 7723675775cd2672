// internal/render/filters_test.go
//
// Filter output formats are a compatibility contract with live themes;
// these tests pin them.
//
// Run: go test ./internal/render -v

package render

import "testing"

func TestMoney(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{999, "€9.99"},
		{0, "€0.00"},
		{int64(2500), "€25.00"},
		{5, "€0.05"},
		{float64(1099), "€10.99"},
		{"junk", "€0.00"},
	}
	for _, c := range cases {
		if got := Money(c.in); got != c.want {
			t.Errorf("Money(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestHandleize(t *testing.T) {
	cases := []struct{ in, want string }{
		{"My Cool Product!!", "my-cool-product"},
		{"  Spaced  Out  ", "spaced-out"},
		{"ALL-CAPS", "all-caps"},
		{"déjà vu", "d-j-vu"},
		{"---", ""},
		{"plain", "plain"},
	}
	for _, c := range cases {
		if got := Handleize(c.in); got != c.want {
			t.Errorf("Handleize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		n    int
		want string
	}{
		{"abcdef", 4, "abc…"},
		{"abc", 4, "abc"},
		{"abcd", 4, "abcd"},
		{"", 4, ""},
		{"abcdef", 0, ""},
	}
	for _, c := range cases {
		if got := Truncate(c.in, c.n); got != c.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", c.in, c.n, got, c.want)
		}
	}
}

func TestURLBuilders(t *testing.T) {
	if got := ProductURL("mug"); got != "/products/mug" {
		t.Errorf("ProductURL = %q", got)
	}
	if got := CollectionURL("all"); got != "/collections/all" {
		t.Errorf("CollectionURL = %q", got)
	}
	if got := ImageURL("p/mug.jpg", "medium"); got != "/cdn/medium/p/mug.jpg" {
		t.Errorf("ImageURL = %q", got)
	}
	if got := ImageURL("", "medium"); got != "/assets/placeholder.png" {
		t.Errorf("ImageURL placeholder = %q", got)
	}
}
