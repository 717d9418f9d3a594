package ssm

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsSsm "github.com/aws/aws-sdk-go-v2/service/ssm"
	awsSsmTypes "github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/pkg/errors"
)

// ErrParameterNotFound is returned when the named parameter does not exist or
// holds no value.
var ErrParameterNotFound = errors.New("parameter not found")

type Client interface {
	GetParameter(ctx context.Context, params *awsSsm.GetParameterInput, optFns ...func(*awsSsm.Options)) (*awsSsm.GetParameterOutput, error)
}

type SSM struct {
	ssmClient Client
}

func NewSSM(awsConfig *aws.Config) *SSM {
	return NewSSMFromClient(awsSsm.NewFromConfig(*awsConfig))
}

func NewSSMFromClient(client Client) *SSM {
	return &SSM{
		ssmClient: client,
	}
}

// GetParameter returns the decrypted value stored under name.
func (s *SSM) GetParameter(ctx context.Context, name string) (string, error) {
	output, err := s.ssmClient.GetParameter(ctx, &awsSsm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})

	if err != nil {
		var notFound *awsSsmTypes.ParameterNotFound
		if errors.As(err, &notFound) {
			return "", errors.Wrapf(ErrParameterNotFound, "%s", name)
		}

		return "", errors.Wrapf(err, "get parameter %s", name)
	}

	if output.Parameter == nil || output.Parameter.Value == nil {
		return "", errors.Wrapf(ErrParameterNotFound, "%s has no value", name)
	}

	return *output.Parameter.Value, nil
}
