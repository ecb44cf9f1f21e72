// Package lexer splits one command line into its command phrase and its
// key=value arguments.
//
// Words are separated by whitespace. A double-quoted segment is a single
// word that keeps its inner whitespace. Any other character, including
// / _ - . : and digits, is part of a word, so node:column, file.txt and
// 42 are single words and never converted to numbers. An '=' binds the
// word after it as the value of the word before it:
//
//	network load file="my file.sif" verbose=true
//
// yields the phrase "network load" and the arguments file and verbose.
package lexer
