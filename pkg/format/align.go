package format

// Magic is the four byte marker present in both SEGB revisions.
const Magic = "SEGB"

// Padding returns how many bytes follow pos before the next multiple of boundary.
func Padding(pos, boundary int64) int64 {
	return (boundary - pos%boundary) % boundary
}

// Align rounds pos up to the next multiple of boundary.
func Align(pos, boundary int64) int64 {
	return pos + Padding(pos, boundary)
}
