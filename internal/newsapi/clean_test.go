package newsapi

import "testing"

func TestCleanFeedText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "Hello world", "Hello world"},
		{"curly quotes", "&#8220;Quoted&#8221;", `"Quoted"`},
		{"apostrophe", "It&#8217;s fine", "It's fine"},
		{"ellipsis entity", "More&#8230;", "More..."},
		{"trailing bracket", "Cut short [ ... ]", "Cut short"},
		{"stray tags", "Bold <b>move</b>", "Bold move"},
		{"whitespace", "  padded  ", "padded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cleanFeedText(tc.in); got != tc.want {
				t.Fatalf("cleanFeedText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}
