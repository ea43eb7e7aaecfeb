// Package normalisers turns raw vault notes into indexable documents.
//
// Each format lives in its own subpackage. Registry picks one per note by
// file extension.
package normalisers
