package roster_test

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"reflect"
	"testing"

	"go-vacation/internal/roster"

	"github.com/stretchr/testify/assert"
)

// Rosters are built from query results only; no repository may read or
// write them directly.
func TestPositionRoster_NotMappedToStorage(t *testing.T) {
	var files []string
	for _, pattern := range []string{
		filepath.Join("..", "*", "*_repo.go"),
		filepath.Join("..", "*", "*", "*_repo.go"),
	} {
		matches, err := filepath.Glob(pattern)
		assert.NoError(t, err)
		files = append(files, matches...)
	}
	assert.Contains(t, files, filepath.Join("..", "roster", "roster_repo.go"))

	fset := token.NewFileSet()
	for _, path := range files {
		f, err := parser.ParseFile(fset, path, nil, 0)
		if !assert.NoError(t, err, path) {
			continue
		}
		ast.Inspect(f, func(n ast.Node) bool {
			if id, ok := n.(*ast.Ident); ok {
				assert.NotEqual(t, "PositionRoster", id.Name, "%s references PositionRoster", fset.Position(id.Pos()))
			}
			return true
		})
	}
}

func TestPositionRoster_HasNoSchemaTags(t *testing.T) {
	for _, typ := range []reflect.Type{
		reflect.TypeOf(roster.PositionRoster{}),
		reflect.TypeOf(roster.PositionInDepartment{}),
	} {
		for i := 0; i < typ.NumField(); i++ {
			field := typ.Field(i)
			_, hasGorm := field.Tag.Lookup("gorm")
			assert.False(t, hasGorm, "%s.%s carries a gorm tag", typ.Name(), field.Name)
		}
	}
}
