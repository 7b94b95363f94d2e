package csharp

import "testing"

func TestCountLOC(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{
			name: "blank lines excluded",
			text: "using System;\n\nclass Foo {}\n",
			want: 2,
		},
		{
			name: "single line comment excluded",
			text: "class Foo {\n// a comment\nint x;\n}\n",
			want: 3,
		},
		{
			name: "block comment excluded",
			text: "class Foo {\n/* start\n * middle\n */\nint x;\n}\n",
			want: 3,
		},
		{
			name: "block comment closing with trailing code counted",
			text: "/* header */ using System;\n",
			want: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CountLOC([]byte(tc.text)); got != tc.want {
				t.Errorf("CountLOC(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}
