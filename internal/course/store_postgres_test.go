// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package course

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestColumns_QueryAssembly verifies that queries concatenated from the shared
column lists keep their SQL keywords whitespace-separated. Without a trailing
newline on a column list, the last column fuses into FROM and Postgres
rejects the statement.
*/
func TestColumns_QueryAssembly(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"course_by_id", `SELECT` + courseColumns + `FROM course WHERE id = $1`},
		{"course_list", `SELECT` + courseColumns + `FROM course ` + `WHERE published = TRUE`},
		{"lesson_by_id", `SELECT` + lessonColumns + `FROM lesson WHERE id = $1`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := strings.Fields(tt.query)
			assert.Contains(t, tokens, "FROM")
			assert.NotContains(t, tt.query, "updatedatFROM")
		})
	}
}
