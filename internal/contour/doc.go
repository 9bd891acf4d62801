// Package contour extracts a hierarchy of border contours from a binary
// image.
//
// Finder implements Suzuki-Abe border following: every outer border and
// every hole border of the foreground becomes a node of a Forest, nested
// the way the regions nest in the image. Holes are children of the outer
// border that surrounds them; components inside a hole are children of
// that hole.
//
// The Forest is an index-linked arena. Links use None for "absent", and
// pruning a node only clears its FirstChild link, so the detached
// subtree stays addressable. FromHierarchy converts the flat hierarchy
// produced by OpenCV into the same representation.
package contour
