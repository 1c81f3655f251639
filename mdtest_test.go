package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/rill-lang/rill/mdtest"
)

// TestMarkdownSuites runs every testdata/*_test.md suite: each test
// case analyzes its rill-program fence and checks the assertion fences
// against the produced artifacts.
func TestMarkdownSuites(t *testing.T) {
	testFiles, err := filepath.Glob("testdata/*_test.md")
	be.Err(t, err, nil)
	be.True(t, len(testFiles) > 0)

	for _, testFile := range testFiles {
		fileName := filepath.Base(testFile)
		testName := strings.TrimSuffix(fileName, ".md")

		t.Run(testName, func(t *testing.T) {
			content, err := os.ReadFile(testFile)
			be.Err(t, err, nil)

			testCases, err := mdtest.ExtractTestCases(string(content))
			be.Err(t, err, nil)

			for _, tc := range testCases {
				t.Run(tc.Name, func(t *testing.T) {
					res, err := AnalyzeProgram([]byte(tc.Input))
					be.Err(t, err, nil)

					for _, assertion := range tc.Assertions {
						switch assertion.Type {
						case mdtest.AssertionTypeQuads:
							if res.Diags.HasErrors() {
								t.Fatalf("expected clean analysis, got diagnostics:\n%s", res.Diags)
							}
							be.Equal(t, DumpQuads(res.Quads), assertion.Content)
						case mdtest.AssertionTypeAST:
							if res.AST == nil {
								t.Fatalf("expected an AST, got diagnostics:\n%s", res.Diags)
							}
							be.Equal(t, ToSExpr(res.AST), assertion.Content)
						case mdtest.AssertionTypeSymbols:
							be.Equal(t, res.Symbols.String(), assertion.Content)
						case mdtest.AssertionTypeErrors:
							be.Equal(t, res.Diags.String(), assertion.Content)
						default:
							t.Fatalf("unhandled assertion type %s", assertion.Type)
						}
					}
				})
			}
		})
	}
}
