package layout

import "testing"

func TestFontTable_StableIDs(t *testing.T) {
	var ft FontTable
	a := FontKey{Family: "Arial", Size: 12, Color: "black"}
	b := FontKey{Family: "Arial", Size: 12, Color: "red"}
	c := FontKey{Family: "Arial", Size: 14, Color: "black"}
	d := FontKey{Family: "Times", Size: 12, Color: "black"}

	ids := []int{ft.ID(a), ft.ID(b), ft.ID(a), ft.ID(c), ft.ID(d), ft.ID(b)}
	want := []int{1, 2, 1, 3, 4, 2}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("call %d: id = %d, want %d", i, ids[i], want[i])
		}
	}
	if ft.Len() != 4 {
		t.Errorf("Len() = %d, want 4", ft.Len())
	}
	if id, ok := ft.Lookup(c); !ok || id != 3 {
		t.Errorf("Lookup(c) = %d, %v; want 3, true", id, ok)
	}
	if _, ok := ft.Lookup(FontKey{Family: "Nope"}); ok {
		t.Error("Lookup of unknown key succeeded")
	}
}

func TestFontTable_SpecsGrouped(t *testing.T) {
	var ft FontTable
	ft.ID(FontKey{"Arial", 12, "black"})  // 1
	ft.ID(FontKey{"Times", 10, "black"})  // 2
	ft.ID(FontKey{"Arial", 16, "black"})  // 3
	ft.ID(FontKey{"Arial", 12, "red"})    // 4
	ft.ID(FontKey{"Times", 10, "blue"})   // 5

	var got []int
	for _, s := range ft.Specs() {
		got = append(got, s.ID)
	}
	want := []int{1, 4, 3, 2, 5}
	if len(got) != len(want) {
		t.Fatalf("Specs ids = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Specs ids = %v, want %v", got, want)
		}
	}
}

func TestFontTable_ZeroValueEmpty(t *testing.T) {
	var ft FontTable
	if specs := ft.Specs(); len(specs) != 0 {
		t.Errorf("Specs() = %v, want empty", specs)
	}
}

func TestStyle_Size(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"12px", 12},
		{"12.5px", 12},
		{" 9pt", 9},
		{"medium", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := (Style{FontSize: tt.in}).Size(); got != tt.want {
			t.Errorf("Size(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestStyle_BoldItalic(t *testing.T) {
	tests := []struct {
		weight, style string
		bold, italic  bool
	}{
		{"bold", "normal", true, false},
		{"700", "italic", true, true},
		{"400", "italic", false, true},
		{"normal", "oblique", false, false},
		{"900", "", true, false},
	}
	for _, tt := range tests {
		s := Style{FontWeight: tt.weight, FontStyle: tt.style}
		if s.Bold() != tt.bold || s.Italic() != tt.italic {
			t.Errorf("Style{%q,%q}: bold=%v italic=%v, want %v %v",
				tt.weight, tt.style, s.Bold(), s.Italic(), tt.bold, tt.italic)
		}
	}
}
