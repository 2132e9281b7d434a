// Package wordset holds the words an OCR engine located on a document image and
// the pure queries the selection engine runs against them.
//
// All coordinates are image-intrinsic pixels: the pixel grid of the original,
// unscaled image. Nothing in this package knows about zoom or screen space.
//
// The package provides:
//
// - Word, the immutable unit received from an OCR provider
// - Set, the ordered, read-only collection of words for one document
// - IDSet, a small set type for word ids
// - Reading-order helpers: SortReadingOrder, Set.WordsBetween, AssembleText
// - Hit-testing: FindAtPoint and FindInRectangle
//
// Reading order is line first, then left to right. It is the canonical text
// order of any selection, independent of the order words were clicked in.
package wordset
