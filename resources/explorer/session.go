package explorer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/resourceexplorer2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// clientFactory builds the API clients for a named profile
type clientFactory func(ctx context.Context, profile, defaultRegion string) (ResourceExplorerAPI, STSAPI, error)

// loadClients resolves the shared config profile and creates the clients.
// The Resource Explorer client runs in the profile's region, falling back to
// defaultRegion when the profile does not set one.
func loadClients(ctx context.Context, profile, defaultRegion string) (ResourceExplorerAPI, STSAPI, error) {
	slog.Debug("Loading AWS configuration", "profile", profile)
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
	if err != nil {
		return nil, nil, fmt.Errorf("%w for profile %s: %w", ErrSession, profile, err)
	}
	if awsCfg.Region == "" {
		awsCfg.Region = defaultRegion
	}
	slog.Debug("Loaded AWS configuration", "profile", profile, "region", awsCfg.Region)

	return resourceexplorer2.NewFromConfig(awsCfg), sts.NewFromConfig(awsCfg), nil
}

// lookupAccountID returns the account the profile's credentials belong to
func lookupAccountID(ctx context.Context, client STSAPI) (string, error) {
	output, err := client.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("failed to get caller identity: %w", err)
	}
	return aws.ToString(output.Account), nil
}
