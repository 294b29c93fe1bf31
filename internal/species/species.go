package species

// Known class indices returned by the classifier.
const (
	Setosa     = 0
	Versicolor = 1
	Virginica  = 2
)

// Unknown is the label for any class index outside the known set.
const Unknown = "Unknown"

var names = map[int]string{
	Setosa:     "Setosa",
	Versicolor: "Versicolor",
	Virginica:  "Virginica",
}

// Label maps a class index to its species name.
func Label(classIndex int) string {
	if n, ok := names[classIndex]; ok {
		return n
	}
	return Unknown
}
