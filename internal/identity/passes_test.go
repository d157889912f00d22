package identity

import (
	"reflect"
	"testing"
)

func TestPassesIndividually(t *testing.T) {
	tests := []struct {
		name  string
		apply func(string) string
		in    string
		want  string
	}{
		{"extension", stripExtension, "JustStandUp1.mp4", "JustStandUp1"},
		{"extension keeps dotted words", stripExtension, "Vol.Two Guard", "Vol.Two Guard"},
		{"extension absent", stripExtension, "NoExtension", "NoExtension"},
		{"trailing digits", stripTrailingDigits, "JustStandUp12", "JustStandUp"},
		{"trailing digits after space", stripTrailingDigits, "Guard Vol 2", "Guard Vol "},
		{"separators", separatorsToSpaces, "back_attacks-system", "back attacks system"},
		{"by before capital", repairBy, "JustStandUpbyCraigJones", "JustStandUp by CraigJones"},
		{"by untouched before lowercase", repairBy, "Lobby", "Lobby"},
		{"connector of", repairConnectors, "BlocksofGuard", "Blocks of Guard"},
		{"connector to", repairConnectors, "ArmtoBack", "Arm to Back"},
		{"connector the", repairConnectors, "UnderthePressure", "Under the Pressure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.apply(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPassOrder(t *testing.T) {
	var names []string
	for _, pass := range Passes() {
		names = append(names, pass.Name)
	}
	want := []string{"strip_extension", "strip_trailing_digits", "separators_to_spaces", "repair_by", "repair_connectors"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("pass order = %v, want %v", names, want)
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("JustStandUp by CraigJones 2")
	want := []string{"just", "stand", "up", "by", "craig", "jones"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokenize = %#v, want %#v", got, want)
	}
}

func TestSplitHeuristicThresholds(t *testing.T) {
	instructor, series := split([]string{"pass", "the", "guard", "now", "craig", "jones"})
	if !reflect.DeepEqual(instructor, []string{"craig", "jones"}) {
		t.Fatalf("instructor = %#v", instructor)
	}
	if !reflect.DeepEqual(series, []string{"pass", "guard", "now"}) {
		t.Fatalf("series = %#v", series)
	}
}
