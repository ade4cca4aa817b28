package newsgather

// GatherProgress reports progress while articles are being gathered.
type GatherProgress struct {
	URL       string
	Completed int
	Total     int
	Error     error
}

// GatherProgressFunc is called as each article finishes, successfully or not.
type GatherProgressFunc func(GatherProgress)
