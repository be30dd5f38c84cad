// Package files numbers the headings of Markdown files on disk.
//
// A file's starting section number comes from the caller or, failing that,
// from a frontmatter field (section_number by default):
//
//	---
//	section_number: "2.1"
//	---
//
// Files without a starting number are left as they are. Frontmatter bytes
// are never rewritten, except when fingerprinting is enabled and the content
// fingerprint has to be refreshed.
package files
