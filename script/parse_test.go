package script

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"on 60 0.8", Command{
			Name: "on",
			Args: []Node{Number(60), Number(0.8)},
		}},
		{"render /tmp/out.wav 2. 69", Command{
			Name: "render",
			Args: []Node{Identifier("/tmp/out.wav"), Number(2), Number(69)},
		}},
		{"off", Command{Name: "off"}},
		{"morph .5", Command{
			Name: "morph",
			Args: []Node{Number(0.5)},
		}},
		{"level -6", Command{
			Name: "level",
			Args: []Node{Number(-6)},
		}},
		{"preset glass # bright", Command{
			Name: "preset",
			Args: []Node{Identifier("glass")},
		}},
		{"", Command{}},
		{"   ", Command{}},
		{"# nothing here", Command{}},
	}
	for _, test := range tests {
		got, err := Parse(test.input)
		if err != nil {
			t.Fatalf("%q: %v", test.input, err)
		}
		if !reflect.DeepEqual(test.want, got) {
			t.Errorf("%q: want %#v, got %#v", test.input, test.want, got)
		}
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"60 on",
		".5 morph",
		"on &",
	}
	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
}
