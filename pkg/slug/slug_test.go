// Copyright (c) 2026 Kavomjer. All rights reserved.
// Author: dario.vukelic.dev@gmail.com

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dvukelic/kavomjer/pkg/slug"
)

/*
TestFrom covers accent folding (including Croatian diacritics), character
sanitization, and hyphen cleanup.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Barcaffe Classic", "barcaffe-classic"},
		{"croatian_diacritics", "Žuta žličica", "zuta-zlicica"},
		{"dj_stroke", "Kava Đakovo", "kava-dakovo"},
		{"mixed_case_and_symbols", "Franck — Jubilarna (mljevena)!", "franck-jubilarna-mljevena"},
		{"numbers_kept", "Espresso No. 7", "espresso-no-7"},
		{"collapsed_hyphens", "a   -  b", "a-b"},
		{"trimmed", " --kava-- ", "kava"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slug.From(tt.input))
		})
	}
}
