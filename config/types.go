package config

// GlobalRegion is the pseudo-region Resource Explorer reports for resources
// that are not bound to a region (IAM, CloudFront, Route 53, ...)
const GlobalRegion = "global"

// DefaultRegions is the region list searched when the configuration does not
// provide one
var DefaultRegions = []string{
	"us-east-1", "us-east-2", "us-west-1", "us-west-2",
	"ap-south-1", "ap-northeast-1", "ap-northeast-2", "ap-southeast-1", "ap-southeast-2",
	"ca-central-1",
	"eu-central-1", "eu-west-1", "eu-west-2", "eu-west-3", "eu-north-1",
	"sa-east-1",
	"af-south-1",
	GlobalRegion,
}

const (
	defaultRegion           = "us-east-1"
	defaultViewNamePrefix   = "all-resources"
	defaultMaxPagesPerQuery = 10000

	// maxSearchPageSize is the largest MaxResults accepted by Search
	maxSearchPageSize = 1000
	// maxViewNamePrefixLen leaves room for "-" and a nanosecond timestamp
	// within the 64 character view name limit
	maxViewNamePrefixLen = 44
)

// Config represents the optional configuration file
type Config struct {
	Version string `yaml:"version"`

	// Regions searched for every profile, in order
	Regions []string `yaml:"regions"`

	// Region of the Resource Explorer client when the profile has none
	DefaultRegion string `yaml:"default_region"`

	// Prefix of the temporary view names
	ViewNamePrefix string `yaml:"view_name_prefix"`

	// MaxResults for each Search call, 0 leaves it to the API
	SearchPageSize int32 `yaml:"search_page_size"`

	// Upper bound of pages fetched for one query, 0 means unlimited
	MaxPagesPerQuery int `yaml:"max_pages_per_query"`
}
