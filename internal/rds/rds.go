package rds

import (
	"context"
	"iter"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsRds "github.com/aws/aws-sdk-go-v2/service/rds"
	awsRdsTypes "github.com/aws/aws-sdk-go-v2/service/rds/types"
	"github.com/luneo7/go-rds-cold-archiving/internal/rds/types"
	"github.com/pkg/errors"
)

// Client is the subset of the RDS API used to discover instances and their tags.
type Client interface {
	awsRds.DescribeDBInstancesAPIClient
	ListTagsForResource(ctx context.Context, params *awsRds.ListTagsForResourceInput, optFns ...func(*awsRds.Options)) (*awsRds.ListTagsForResourceOutput, error)
}

type RDS struct {
	rdsClient Client
}

func NewRDS(awsConfig *aws.Config) *RDS {
	return NewRDSFromClient(awsRds.NewFromConfig(*awsConfig))
}

func NewRDSFromClient(client Client) *RDS {
	return &RDS{
		rdsClient: client,
	}
}

// Instances lazily walks every DB instance visible to the caller, following
// the Marker continuation token until the listing is exhausted. A page error
// is yielded once and ends the sequence.
func (r *RDS) Instances(ctx context.Context) iter.Seq2[types.Instance, error] {
	return func(yield func(types.Instance, error) bool) {
		paginator := awsRds.NewDescribeDBInstancesPaginator(r.rdsClient, &awsRds.DescribeDBInstancesInput{})

		for paginator.HasMorePages() {
			output, err := paginator.NextPage(ctx)
			if err != nil {
				yield(types.Instance{}, errors.Wrap(err, "describe db instances"))
				return
			}

			for _, v := range output.DBInstances {
				if !yield(toInstance(v), nil) {
					return
				}
			}
		}
	}
}

func (r *RDS) GetInstances(ctx context.Context) ([]types.Instance, error) {
	var dbInstances []types.Instance

	for instance, err := range r.Instances(ctx) {
		if err != nil {
			return nil, err
		}
		dbInstances = append(dbInstances, instance)
	}

	return dbInstances, nil
}

func (r *RDS) GetTags(ctx context.Context, dbInstanceArn *string) (types.Tags, error) {
	tags := types.Tags{}

	output, err := r.rdsClient.ListTagsForResource(
		ctx,
		&awsRds.ListTagsForResourceInput{
			ResourceName: dbInstanceArn,
		},
	)

	if err != nil {
		return tags, errors.Wrapf(err, "list tags for %s", aws.ToString(dbInstanceArn))
	}

	for _, v := range output.TagList {
		if v.Key != nil && v.Value != nil {
			tags[*v.Key] = *v.Value
		}
	}

	return tags, nil
}

func toInstance(v awsRdsTypes.DBInstance) types.Instance {
	instance := types.Instance{
		DBInstanceArn:        v.DBInstanceArn,
		DBInstanceIdentifier: v.DBInstanceIdentifier,
		DBInstanceClass:      v.DBInstanceClass,
		AllocatedStorage:     v.AllocatedStorage,
		Engine:               v.Engine,
		EngineVersion:        v.EngineVersion,
	}

	if v.Endpoint != nil {
		instance.EndpointAddress = v.Endpoint.Address
	}

	return instance
}
