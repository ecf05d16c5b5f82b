// Package main provides the notepen command line tool.
//
// It runs the editor's export pipelines, word counter and document importers
// against files on disk, without a server.
//
// Usage:
//
//	notepen export --format markdown --header title.html --body body.html
//	notepen count body.html --goal 500
//	notepen import notes.docx --save
package main

func main() {
	Execute()
}
