package resources

import "context"

// ProfileCounter counts the resources visible to one AWS profile
type ProfileCounter interface {
	// CountProfile adds the resources of the profile's account to counts.
	// An error means nothing could be counted for the profile; partial
	// failures are reported through ProfileResult.Warnings instead.
	CountProfile(ctx context.Context, profile string, counts Counts) (*ProfileResult, error)
}

// ProfileResult summarizes the work done for one profile
type ProfileResult struct {
	Profile string
	// AccountID is empty when the caller identity could not be resolved
	AccountID string
	ViewARN   string
	// Resources is the number of resources folded into the shared counts
	Resources int
	Warnings  []error
}
