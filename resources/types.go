package resources

// Counts maps a resource type (e.g. AWS::EC2::Instance) to the number of
// resources discovered so far. A single Counts is shared by every profile in
// a run and is never reset. It is not safe for concurrent use.
type Counts map[string]int

// Add records one resource of the given type
func (c Counts) Add(resourceType string) {
	c[resourceType]++
}

// Total returns the sum of all counts
func (c Counts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}
