// Package store reads, edits and writes annovate annotation files.
//
// An annotation file holds key/value metadata for a directory and for the files
// in it. Every annotation also carries a context: a free-text note on where the
// value came from.
//
// # File Format
//
// The format is line oriented. The first character of each line (the leader)
// gives the line its role:
//
//	@name     starts the section of file "name"
//	>key      starts an annotation
//	=value    adds one line to the annotation's value (zero or more)
//	<context  ends the annotation
//
// Annotations before the first '@' belong to the directory. Trailing whitespace
// on every line is insignificant.
//
// # Parsing
//
// Parsing is a four-state machine (start, boundary, key, value). '@' and '>' are
// legal only at start or on a boundary; '=' and '<' only after '>' or '='. Any
// other leader, an empty line, or input ending after '>' or '=' is a *ParseError.
// A file either parses completely or not at all. Lines may be of any length.
//
// Input may also end right after an '@' header or be empty; the last line does
// not have to be a '<'. This is deliberate: it lets every Store be saved and read
// back, including one with no annotations and one whose last file has had all of
// its annotations removed.
//
// A repeated '@' header for the same name discards that file's earlier section.
//
// # History
//
// A key may occur several times in a Container. Entries are never edited: new
// values are appended and the last entry is the current one. Older entries stay
// until removed by key.
//
// # Persistence
//
// Open reads the file once, creating it with a "creation time" annotation if it
// does not exist. Save rewrites the entire file from memory; nothing on disk is
// merged. Concurrent writers are not detected.
package store
