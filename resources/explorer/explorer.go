package explorer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/google/uuid"
	"github.com/moepig/aws-resource-count/resources"
)

// ResourceExplorerAPI defines the AWS Resource Explorer API interface
type ResourceExplorerAPI interface {
	CreateView(ctx context.Context, params *resourceexplorer2.CreateViewInput, optFns ...func(*resourceexplorer2.Options)) (*resourceexplorer2.CreateViewOutput, error)
	DeleteView(ctx context.Context, params *resourceexplorer2.DeleteViewInput, optFns ...func(*resourceexplorer2.Options)) (*resourceexplorer2.DeleteViewOutput, error)
	ListSupportedResourceTypes(ctx context.Context, params *resourceexplorer2.ListSupportedResourceTypesInput, optFns ...func(*resourceexplorer2.Options)) (*resourceexplorer2.ListSupportedResourceTypesOutput, error)
	Search(ctx context.Context, params *resourceexplorer2.SearchInput, optFns ...func(*resourceexplorer2.Options)) (*resourceexplorer2.SearchOutput, error)
}

// STSAPI defines the AWS STS API interface
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Options controls how a Counter searches
type Options struct {
	Regions          []string
	DefaultRegion    string
	ViewNamePrefix   string
	SearchPageSize   int32
	MaxPagesPerQuery int
}

// Counter implements the resources.ProfileCounter interface with AWS Resource Explorer
type Counter struct {
	opts Options

	// Replaced in tests
	newClients clientFactory
	now        func() time.Time
	newToken   func() string
}

var _ resources.ProfileCounter = (*Counter)(nil)

// NewCounter creates a new Resource Explorer counter
func NewCounter(opts Options) *Counter {
	return &Counter{
		opts:       opts,
		newClients: loadClients,
		now:        time.Now,
		newToken:   uuid.NewString,
	}
}

// CountProfile counts every resource visible to the profile across the
// configured regions. It creates a temporary view for the run and always
// tries to delete it before returning.
func (c *Counter) CountProfile(ctx context.Context, profile string, counts resources.Counts) (*resources.ProfileResult, error) {
	slog.Debug("Starting resource count", "profile", profile)

	client, stsClient, err := c.newClients(ctx, profile, c.opts.DefaultRegion)
	if err != nil {
		return nil, err
	}

	result := &resources.ProfileResult{Profile: profile}

	accountID, err := lookupAccountID(ctx, stsClient)
	if err != nil {
		result.Warnings = append(result.Warnings, err)
	} else {
		result.AccountID = accountID
		slog.Debug("Resolved caller identity", "profile", profile, "account_id", accountID)
	}

	viewARN, err := c.createView(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("%w for profile %s: %w", ErrViewCreation, profile, err)
	}
	result.ViewARN = viewARN
	slog.Debug("Created view", "profile", profile, "view_arn", viewARN)

	defer func() {
		if err := c.deleteView(context.WithoutCancel(ctx), client, viewARN); err != nil {
			result.Warnings = append(result.Warnings, err)
			return
		}
		slog.Debug("Deleted view", "profile", profile, "view_arn", viewARN)
	}()

	resourceTypes, err := supportedResourceTypes(ctx, client)
	if err != nil {
		result.Warnings = append(result.Warnings, err)
	}
	slog.Debug("Retrieved supported resource types", "profile", profile, "count", len(resourceTypes))

	for _, region := range c.opts.Regions {
		n, errs := c.countRegion(ctx, client, viewARN, region, resourceTypes, counts)
		result.Resources += n
		result.Warnings = append(result.Warnings, errs...)
		slog.Debug("Counted region", "profile", profile, "region", region, "count", n, "errors", len(errs))
	}

	return result, nil
}

// createView creates a view with a unique name and returns its ARN
func (c *Counter) createView(ctx context.Context, client ResourceExplorerAPI) (string, error) {
	name := fmt.Sprintf("%s-%d", c.opts.ViewNamePrefix, c.now().UnixNano())
	output, err := client.CreateView(ctx, &resourceexplorer2.CreateViewInput{
		ViewName:    aws.String(name),
		ClientToken: aws.String(c.newToken()),
	})
	if err != nil {
		return "", err
	}
	if output.View == nil || aws.ToString(output.View.ViewArn) == "" {
		return "", fmt.Errorf("view %s was created without an ARN", name)
	}
	return *output.View.ViewArn, nil
}

// deleteView deletes the view. Failures are returned for reporting only.
func (c *Counter) deleteView(ctx context.Context, client ResourceExplorerAPI, viewARN string) error {
	_, err := client.DeleteView(ctx, &resourceexplorer2.DeleteViewInput{
		ViewArn: aws.String(viewARN),
	})
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrViewDeletion, viewARN, err)
	}
	return nil
}

// supportedResourceTypes lists the resource types Resource Explorer can
// search for, in API order. On error the types collected so far are returned
// together with the error.
func supportedResourceTypes(ctx context.Context, client ResourceExplorerAPI) ([]string, error) {
	var resourceTypes []string

	paginator := resourceexplorer2.NewListSupportedResourceTypesPaginator(client, &resourceexplorer2.ListSupportedResourceTypesInput{},
		func(o *resourceexplorer2.ListSupportedResourceTypesPaginatorOptions) {
			o.StopOnDuplicateToken = true
		})
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return resourceTypes, fmt.Errorf("%w: %w", ErrSupportedTypes, err)
		}
		for _, t := range output.ResourceTypes {
			if t.ResourceType != nil {
				resourceTypes = append(resourceTypes, *t.ResourceType)
			}
		}
	}

	return resourceTypes, nil
}
