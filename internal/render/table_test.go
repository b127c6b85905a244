package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableAlignment(t *testing.T) {
	table := NewTable("** * * *")
	table.Append(" ", "PORT", "STATE", "SERVICE", "VERSION")
	table.Append("-", "80/tcp", "open", "http")
	table.Append("+", "80/tcp", "closed", "http")

	want := " PORT   STATE  SERVICE VERSION\n" +
		"-80/tcp open   http\n" +
		"+80/tcp closed http"
	assert.Equal(t, want, table.String())
}

func TestTablePrefix(t *testing.T) {
	table := NewTable("<* - *")
	table.Append("a", "b")
	table.Append("longer", "x")

	want := "<a      - b\n" +
		"<longer - x"
	assert.Equal(t, want, table.String())
}

func TestTableDropsTrailingEmptyCells(t *testing.T) {
	table := NewTable("* * *")
	table.Append("a", "", "")
	assert.Equal(t, "a", table.String())
}

func TestTableRawRows(t *testing.T) {
	table := NewTable("* *")
	table.Append("x", "y")
	table.AppendRaw("|_ raw line kept verbatim")

	want := "x y\n" +
		"|_ raw line kept verbatim"
	assert.Equal(t, want, table.String())
	assert.Equal(t, 2, table.Len())
}

func TestTableEmpty(t *testing.T) {
	table := NewTable("*")
	assert.Zero(t, table.Len())
	assert.Empty(t, table.String())
}
