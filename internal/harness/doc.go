// Package harness runs scripted anno sessions against a scratch directory.
//
// A scenario is a YAML file naming the files to create, the commands to run and
// the state the annotation file must end up in. Every scenario runs in a fresh
// temporary directory with a deterministic clock and an isolated environment,
// so its transcript can be compared against a golden file.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario checks"
//	files:
//	  - path: a.jpg
//	  - path: .annovate
//	    content: ">k\n=v\n<c\n"
//	env:
//	  ANNOVATE_LIST_KEY: title
//	steps:
//	  - run: [put, a.jpg, rating, "5"]
//	  - run: [get, a.jpg, rating]
//	    expect:
//	      stdout: "5\n"
//	  - run: [get, b.jpg, rating]
//	    expect:
//	      exit: 1
//	      stderr: E004
//	assertions:
//	  - type: file_contains
//	    path: .annovate
//	    content: "@a.jpg\n"
//
// Every step runs with -m pointing at .annovate inside the scratch directory.
// The token $DIR in arguments expands to the scratch directory, and occurrences
// of the directory in output are written back as $DIR.
//
// # Assertion Types
//
//   - file_equals: the file's contents equal content exactly
//   - file_contains: the file's contents include content
//   - file_exists: the file exists
//   - file_absent: the file does not exist
package harness
