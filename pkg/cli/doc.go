// Package cli implements the mockfactory command-line interface.
//
// Commands load one or more factory manifests, compile them into a session
// and print results as indented JSON:
//
//	mockfactory create post --count 2 --trait published --set title=Hello -m blog.yaml
//	mockfactory create post -m 'fixtures/**/*.yaml' --select '$.users[*].name'
//	mockfactory validate -m blog.yaml
//	mockfactory version
package cli
