package llm

import (
	"errors"
	"testing"
)

func TestStripFences(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a": 1}`, `{"a": 1}`},
		{"fenced", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"fenced with json tag", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"surrounding whitespace", "  \n```json\n{\"a\": 1}\n```\n  ", `{"a": 1}`},
		{"no closing fence", "```json\n{\"a\": 1}", `{"a": 1}`},
	}
	for _, tc := range cases {
		if got := StripFences(tc.in); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDecodeJSONObject(t *testing.T) {
	obj, err := DecodeJSONObject("```json\n{\"AI\": 90, \"Biotech\": 95}\n```")
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(obj) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(obj))
	}
	if obj["AI"].(float64) != 90 {
		t.Errorf("unexpected AI value: %v", obj["AI"])
	}
}

func TestDecodeJSONObjectEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		if _, err := DecodeJSONObject(in); !errors.Is(err, ErrEmptyResponse) {
			t.Errorf("input %q: expected ErrEmptyResponse, got %v", in, err)
		}
	}
}

func TestDecodeJSONObjectMalformed(t *testing.T) {
	if _, err := DecodeJSONObject("not json"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestDecodeJSONObjectWrongShape(t *testing.T) {
	for _, in := range []string{`[1, 2, 3]`, `"just a string"`, `42`} {
		if _, err := DecodeJSONObject(in); !errors.Is(err, ErrUnexpectedShape) {
			t.Errorf("input %q: expected ErrUnexpectedShape, got %v", in, err)
		}
	}
}

func TestDecodeJSONInto(t *testing.T) {
	var names []struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	raw := "```json\n[{\"first_name\": \"Anna\", \"last_name\": \"Keller\"}]\n```"
	if err := DecodeJSONInto(raw, &names); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(names) != 1 || names[0].FirstName != "Anna" {
		t.Fatalf("unexpected result: %+v", names)
	}
}
