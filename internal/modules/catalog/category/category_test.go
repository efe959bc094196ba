package category

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Drinks", "drinks"},
		{"Dairy & Eggs", "dairy-eggs"},
		{"  Fresh   Produce  ", "fresh-produce"},
		{"Aisle 7", "aisle-7"},
		{"---", ""},
	}
	for _, tc := range cases {
		if got := slugify(tc.in); got != tc.want {
			t.Errorf("slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
