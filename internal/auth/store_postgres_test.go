// Copyright (c) 2026 Lurnia. All rights reserved.
// Author: minh.tranduc.vn@gmail.com

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

/*
TestAccountColumns_QueryAssembly verifies that queries concatenated from the
shared column list keep their SQL keywords whitespace-separated. Without a
trailing newline on the column list, the last column fuses into FROM and
Postgres rejects the statement.
*/
func TestAccountColumns_QueryAssembly(t *testing.T) {
	query := `SELECT` + accountColumns + `FROM account WHERE email = $1`

	tokens := strings.Fields(query)
	assert.Contains(t, tokens, "FROM")
	assert.Contains(t, tokens, "updatedat")
	assert.NotContains(t, query, "updatedatFROM")
}
