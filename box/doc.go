// Package box lets code accept a plain value, a reactive reference, or a
// getter through one shape.
//
// A box exposes its value through Current. Writable boxes also accept
// SetCurrent, which routes the value back to whatever store produced it:
// a private signal cell for New, or a caller-supplied setter for WithSetter.
//
//	count := box.New(0)
//	double := box.With(func() int { return count.Current() * 2 }, count)
//	count.SetCurrent(3)
//	double.Current() // 6
//
// Boxes carry unexported identity tags, so IsBox and IsWritableBox are the
// only way to tell variants apart and only this package can mint boxes.
// Host state from the state package is adapted with FromReadable and
// FromWritable.
//
// Flatten projects a bag of boxes and plain values into a View whose
// fields forward reads (and writes, for writable boxes) to the sources:
//
//	flat := box.Flatten(map[string]any{"count": count, "double": double})
//	_ = flat.Set("count", 5)      // count.Current() == 5
//	err := flat.Set("double", 1)  // errors.Is(err, box.ErrReadOnly)
package box
