package draw2d

// palette holds the label colors, picked by id
var palette = [20][3]uint8{
	{31, 119, 180}, {174, 199, 232}, {255, 127, 14}, {255, 187, 120},
	{44, 160, 44}, {152, 223, 138}, {214, 39, 40}, {255, 152, 150},
	{148, 103, 189}, {197, 176, 213}, {140, 86, 75}, {196, 156, 148},
	{227, 119, 194}, {247, 182, 210}, {127, 127, 127}, {199, 199, 199},
	{188, 189, 34}, {219, 219, 141}, {23, 190, 207}, {158, 218, 229},
}

// ColorByID returns the palette color of a label or track id
func ColorByID(id int) [3]uint8 {
	i := id % len(palette)
	if i < 0 {
		i += len(palette)
	}
	return palette[i]
}
