// Package opencv adapts OpenCV, through gocv, to the detector's edge and
// contour interfaces.
//
// The package is only compiled with the gocv build tag, which requires
// OpenCV 4 and cgo:
//
//	go build -tags gocv ./...
//
// Without the tag the detector uses the pure-Go Canny and border follower.
package opencv
