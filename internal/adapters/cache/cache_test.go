package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	items     map[string]map[string]types.AttributeValue
	err       error
	lastTable string
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}}
}

func pk(key map[string]types.AttributeValue) string {
	return key["key"].(*types.AttributeValueMemberS).Value
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastTable = aws.ToString(in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[pk(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastTable = aws.ToString(in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	f.items[pk(in.Item)] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) DeleteItem(_ context.Context, in *dynamodb.DeleteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	f.lastTable = aws.ToString(in.TableName)
	if f.err != nil {
		return nil, f.err
	}
	delete(f.items, pk(in.Key))
	return &dynamodb.DeleteItemOutput{}, nil
}

func TestMemory(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", "v"))
	v, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Delete(ctx, "missing"))
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestNewDynamoDB_Validation(t *testing.T) {
	_, err := NewDynamoDB(nil, "t")
	require.Error(t, err)
	_, err = NewDynamoDB(newFakeDynamo(), "  ")
	require.Error(t, err)
}

func TestDynamoDB_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := newFakeDynamo()
	c, err := NewDynamoDB(db, "cache-table")
	require.NoError(t, err)

	_, ok, err := c.Get(ctx, "RECENT_ANNOUNCEMENTS")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "RECENT_ANNOUNCEMENTS", "Last chance"))
	assert.Equal(t, "cache-table", db.lastTable)
	stored := db.items["RECENT_ANNOUNCEMENTS"]
	require.NotNil(t, stored)
	assert.Equal(t, "Last chance", stored["value"].(*types.AttributeValueMemberS).Value)

	v, ok, err := c.Get(ctx, "RECENT_ANNOUNCEMENTS")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Last chance", v)

	require.NoError(t, c.Delete(ctx, "RECENT_ANNOUNCEMENTS"))
	_, ok, err = c.Get(ctx, "RECENT_ANNOUNCEMENTS")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDynamoDB_Errors(t *testing.T) {
	ctx := context.Background()
	db := newFakeDynamo()
	db.err = errors.New("throttled")
	c, err := NewDynamoDB(db, "cache-table")
	require.NoError(t, err)

	_, _, err = c.Get(ctx, "k")
	require.ErrorContains(t, err, "throttled")
	require.ErrorContains(t, c.Set(ctx, "k", "v"), "throttled")
	require.ErrorContains(t, c.Delete(ctx, "k"), "throttled")
}
