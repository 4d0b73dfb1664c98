package sass

// SyntaxForTest exposes syntaxFor.
func SyntaxForTest(filename string) string {
	return string(syntaxFor(filename))
}
