package models

import (
	"testing"
)

func TestPhraseQuery_Validate(t *testing.T) {
	hint := 3
	tests := []struct {
		name    string
		query   *PhraseQuery
		wantErr bool
	}{
		{"empty phrase", &PhraseQuery{Phrase: ""}, true},
		{"valid phrase", &PhraseQuery{Phrase: "Revenue 12.8"}, false},
		{"phrase with hint", &PhraseQuery{Phrase: "Revenue 12.8", PageHint: &hint}, false},
		{"empty phrase with hint still invalid", &PhraseQuery{Phrase: "", PageHint: &hint}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestRect_Edges(t *testing.T) {
	r := Rect{X: 10, Y: 20, W: 30, H: 5}
	if got := r.Right(); got != 40 {
		t.Errorf("Right() = %v, want %v", got, 40.0)
	}
	if got := r.Top(); got != 25 {
		t.Errorf("Top() = %v, want %v", got, 25.0)
	}
}
