package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

// fakeAPI is a simple fake implementing ssmAPI for tests.
type fakeAPI struct {
	getOut *ssm.GetParameterOutput
	getErr error
	lastIn *ssm.GetParameterInput
}

func (f *fakeAPI) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.lastIn = in
	return f.getOut, f.getErr
}

func strPtr(s string) *string { return &s }

func TestNew_RejectsNilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Name: strPtr("/travel/config/runtime"), Value: strPtr(`{"max_message_length":500}`),
	}}}
	client, err := New(api)
	require.NoError(t, err)

	v, err := client.GetParameter(context.Background(), " /travel/config/runtime ")
	require.NoError(t, err)
	require.Equal(t, `{"max_message_length":500}`, v)
	require.Equal(t, "/travel/config/runtime", *api.lastIn.Name)
	require.True(t, *api.lastIn.WithDecryption)
}

func TestGetParameter_EmptyName(t *testing.T) {
	client, err := New(&fakeAPI{})
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "  ")
	require.Error(t, err)
}

func TestGetParameter_MissingValue(t *testing.T) {
	client, err := New(&fakeAPI{getOut: &ssm.GetParameterOutput{Parameter: &types.Parameter{Name: strPtr("p")}}})
	require.NoError(t, err)
	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing value")
}

func TestGetParameter_NotFound(t *testing.T) {
	client, err := New(&fakeAPI{getErr: &types.ParameterNotFound{Message: strPtr("nope")}})
	require.NoError(t, err)

	_, err = client.GetParameter(context.Background(), "p")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "p", nf.Name)
	require.True(t, nf.NotFound())
}

func TestGetParameter_APIError(t *testing.T) {
	client, err := New(&fakeAPI{getErr: errors.New("throttled")})
	require.NoError(t, err)

	_, err = client.GetParameter(context.Background(), "p")
	require.Error(t, err)
	var nf *NotFoundError
	require.False(t, errors.As(err, &nf))
	require.Contains(t, err.Error(), "throttled")
}
