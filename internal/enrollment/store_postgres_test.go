// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package enrollment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestEnrollmentColumns_QueryAssembly verifies that queries concatenated from
the shared column list keep their SQL keywords whitespace-separated. Without
a trailing newline on the column list, the last column fuses into FROM and
Postgres rejects the statement.
*/
func TestEnrollmentColumns_QueryAssembly(t *testing.T) {
	query := `SELECT` + enrollmentColumns + `FROM enrollment WHERE id = $1`

	tokens := strings.Fields(query)
	assert.Contains(t, tokens, "FROM")
	assert.Contains(t, tokens, "completedat")
	assert.NotContains(t, query, "completedatFROM")
}
