package marketparticipants

import "testing"

func TestIsValidActorID(t *testing.T) {
	cases := []struct {
		id    string
		valid bool
	}{
		{"5790001330552", true},  // GLN with correct check digit
		{"5790001330553", false}, // check digit off by one
		{"579000133055", false},  // 12 digits
		{"57900013305521", false},
		{"5790O01330552", false}, // letter in a GLN
		{"10X1001A1001A248", true}, // EIC
		{"10X1001A1001A24!", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsValidActorID(tc.id); got != tc.valid {
			t.Fatalf("IsValidActorID(%q) = %v, want %v", tc.id, got, tc.valid)
		}
	}
}
