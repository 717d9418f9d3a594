package batch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsBatch "github.com/aws/aws-sdk-go-v2/service/batch"
	awsBatchTypes "github.com/aws/aws-sdk-go-v2/service/batch/types"
	"github.com/luneo7/go-rds-cold-archiving/internal/batch/types"
	"github.com/pkg/errors"
)

type Client interface {
	SubmitJob(ctx context.Context, params *awsBatch.SubmitJobInput, optFns ...func(*awsBatch.Options)) (*awsBatch.SubmitJobOutput, error)
}

type Batch struct {
	batchClient Client
}

func NewBatch(awsConfig *aws.Config) *Batch {
	return NewBatchFromClient(awsBatch.NewFromConfig(*awsConfig))
}

func NewBatchFromClient(client Client) *Batch {
	return &Batch{
		batchClient: client,
	}
}

func (b *Batch) SubmitJob(ctx context.Context, job types.Job) (*types.SubmittedJob, error) {
	output, err := b.batchClient.SubmitJob(ctx, NewSubmitJobInput(job))

	if err != nil {
		return nil, errors.Wrapf(err, "submit job %s to %s", job.Name, job.Queue)
	}

	return &types.SubmittedJob{
		JobID:   output.JobId,
		JobName: output.JobName,
		JobArn:  output.JobArn,
	}, nil
}

func NewSubmitJobInput(job types.Job) *awsBatch.SubmitJobInput {
	environment := make([]awsBatchTypes.KeyValuePair, len(job.Environment))
	for i, e := range job.Environment {
		environment[i] = awsBatchTypes.KeyValuePair{
			Name:  aws.String(e.Name),
			Value: aws.String(e.Value),
		}
	}

	return &awsBatch.SubmitJobInput{
		JobDefinition: aws.String(job.Definition),
		JobName:       aws.String(job.Name),
		JobQueue:      aws.String(job.Queue),
		ContainerOverrides: &awsBatchTypes.ContainerOverrides{
			Environment: environment,
		},
	}
}
