package explorer

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/moepig/aws-resource-count/resources"
)

// Query is one Resource Explorer search, optionally narrowed to a resource type
type Query struct {
	ViewARN      string
	Region       string
	ResourceType string
}

// String returns the Resource Explorer query string
func (q Query) String() string {
	s := "region:" + q.Region
	if q.ResourceType != "" {
		s += " resourcetype:" + q.ResourceType
	}
	return s
}

func (q Query) input(nextToken *string, pageSize int32) *resourceexplorer2.SearchInput {
	input := &resourceexplorer2.SearchInput{
		QueryString: aws.String(q.String()),
		ViewArn:     aws.String(q.ViewARN),
		NextToken:   nextToken,
	}
	if pageSize > 0 {
		input.MaxResults = aws.Int32(pageSize)
	}
	return input
}

// strategy is how the resources of one region are enumerated
type strategy int

const (
	// wholeRegion pages through the plain region query
	wholeRegion strategy = iota
	// perType issues one query per supported resource type
	perType
)

func (s strategy) String() string {
	if s == wholeRegion {
		return "whole_region"
	}
	return "per_type"
}

// search runs a single Search call
func (c *Counter) search(ctx context.Context, client ResourceExplorerAPI, q Query, nextToken *string) (*resourceexplorer2.SearchOutput, error) {
	output, err := client.Search(ctx, q.input(nextToken, c.opts.SearchPageSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrQuery, q.String(), err)
	}
	return output, nil
}

// selectStrategy runs the exploratory region query. When the API reports the
// result as complete the first page is returned for reuse.
func (c *Counter) selectStrategy(ctx context.Context, client ResourceExplorerAPI, q Query) (strategy, *resourceexplorer2.SearchOutput, error) {
	output, err := c.search(ctx, client, q, nil)
	if err != nil {
		return 0, nil, err
	}
	if output.Count != nil && aws.ToBool(output.Count.Complete) {
		return wholeRegion, output, nil
	}
	return perType, nil, nil
}

// pages yields the result pages of q until no continuation token remains.
// A non-nil first page is yielded as is instead of being fetched again.
// Iteration stops after the first error.
func (c *Counter) pages(ctx context.Context, client ResourceExplorerAPI, q Query, first *resourceexplorer2.SearchOutput) iter.Seq2[*resourceexplorer2.SearchOutput, error] {
	return func(yield func(*resourceexplorer2.SearchOutput, error) bool) {
		page := first
		var nextToken *string
		seen := make(map[string]bool)

		for fetched := 1; ; fetched++ {
			if page == nil {
				output, err := c.search(ctx, client, q, nextToken)
				if err != nil {
					yield(nil, err)
					return
				}
				page = output
			}

			if !yield(page, nil) {
				return
			}

			token := aws.ToString(page.NextToken)
			if token == "" {
				return
			}
			if seen[token] {
				yield(nil, fmt.Errorf("%w: %q: %w", ErrQuery, q.String(), ErrRepeatedToken))
				return
			}
			if c.opts.MaxPagesPerQuery > 0 && fetched >= c.opts.MaxPagesPerQuery {
				yield(nil, fmt.Errorf("%w: %q: %w after %d pages", ErrQuery, q.String(), ErrPageLimit, fetched))
				return
			}
			seen[token] = true
			nextToken = aws.String(token)
			page = nil
		}
	}
}

// countQuery folds every page of q into counts as it arrives and returns the
// number of resources added. Resources folded before an error stay counted.
func (c *Counter) countQuery(ctx context.Context, client ResourceExplorerAPI, q Query, first *resourceexplorer2.SearchOutput, counts resources.Counts) (int, error) {
	added := 0
	for page, err := range c.pages(ctx, client, q, first) {
		if err != nil {
			return added, err
		}
		added += foldPage(page, counts)
	}
	return added, nil
}

// foldPage adds the resources of one page to counts
func foldPage(page *resourceexplorer2.SearchOutput, counts resources.Counts) int {
	added := 0
	for _, resource := range page.Resources {
		if resource.ResourceType == nil {
			slog.Debug("Skipping resource without type", "arn", aws.ToString(resource.Arn))
			continue
		}
		counts.Add(*resource.ResourceType)
		added++
	}
	return added
}

// countByType queries every supported resource type of a region in turn.
// A failed query is reported and the remaining types are still counted.
func (c *Counter) countByType(ctx context.Context, client ResourceExplorerAPI, viewARN, region string, resourceTypes []string, counts resources.Counts) (int, []error) {
	added := 0
	var errs []error
	for _, resourceType := range resourceTypes {
		q := Query{ViewARN: viewARN, Region: region, ResourceType: resourceType}
		n, err := c.countQuery(ctx, client, q, nil, counts)
		added += n
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if n > 0 {
			slog.Debug("Counted resource type", "region", region, "resource_type", resourceType, "count", n)
		}
	}
	return added, errs
}

// countRegion enumerates one region with the strategy its exploratory query selects
func (c *Counter) countRegion(ctx context.Context, client ResourceExplorerAPI, viewARN, region string, resourceTypes []string, counts resources.Counts) (int, []error) {
	q := Query{ViewARN: viewARN, Region: region}
	s, first, err := c.selectStrategy(ctx, client, q)
	if err != nil {
		return 0, []error{err}
	}
	slog.Debug("Selected region strategy", "region", region, "strategy", s.String())

	if s == perType {
		return c.countByType(ctx, client, viewARN, region, resourceTypes, counts)
	}

	n, err := c.countQuery(ctx, client, q, first, counts)
	if err != nil {
		return n, []error{err}
	}
	return n, nil
}
