package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"travel-assistant/internal/domain"
)

const (
	skPrefixMsg = "MSG#"
	skMeta      = "META#"
	ttlDuration = 30 * 24 * time.Hour // 30-day TTL

	conditionalCheckFailed = "ConditionalCheckFailed"
)

// dynamodbAPI is the minimal DynamoDB interface required by Client.
// Defined here for testability.
type dynamodbAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, in *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	TransactWriteItems(ctx context.Context, in *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Client stores chat sessions in a single DynamoDB table. Each session has one
// META# item holding the trip context and turn count, and one MSG# item per
// transcript message.
type Client struct {
	api       dynamodbAPI
	tableName string
	now       func() time.Time
}

// New creates a new repository Client.
func New(api dynamodbAPI, tableName string) (*Client, error) {
	if api == nil {
		return nil, errors.New("repository: api must not be nil")
	}
	if strings.TrimSpace(tableName) == "" {
		return nil, errors.New("repository: table name must not be empty")
	}
	return &Client{api: api, tableName: tableName, now: time.Now}, nil
}

func sessionPK(sessionID string) string {
	return "SESSION#" + sessionID
}

// msgSK zero-pads the id so lexical order matches transcript order.
func msgSK(id int) string {
	return fmt.Sprintf("%s%08d", skPrefixMsg, id)
}

func (c *Client) ttlValue() int64 {
	return c.now().Add(ttlDuration).Unix()
}

// GetSession reads the session metadata and its full transcript in order.
func (c *Client) GetSession(ctx context.Context, sessionID string) (domain.Session, error) {
	pk := sessionPK(sessionID)
	out, err := c.api.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: pk},
			"SK": &types.AttributeValueMemberS{Value: skMeta},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return domain.Session{}, fmt.Errorf("repository: GetSession get meta: %w", err)
	}
	if out == nil || len(out.Item) == 0 {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	session, err := itemToSession(out.Item)
	if err != nil {
		return domain.Session{}, fmt.Errorf("repository: GetSession decode meta: %w", err)
	}
	session.ID = sessionID

	msgs, err := c.queryMessages(ctx, pk)
	if err != nil {
		return domain.Session{}, err
	}
	session.Messages = msgs
	return session, nil
}

func (c *Client) queryMessages(ctx context.Context, pk string) ([]domain.Message, error) {
	in := &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :prefix)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk":     &types.AttributeValueMemberS{Value: pk},
			":prefix": &types.AttributeValueMemberS{Value: skPrefixMsg},
		},
		ScanIndexForward: aws.Bool(true),
		ConsistentRead:   aws.Bool(true),
	}

	var msgs []domain.Message
	for {
		out, err := c.api.Query(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("repository: GetSession query: %w", err)
		}
		for _, item := range out.Items {
			msg, err := itemToMessage(item)
			if err != nil {
				return nil, fmt.Errorf("repository: GetSession unmarshal: %w", err)
			}
			msgs = append(msgs, msg)
		}
		if len(out.LastEvaluatedKey) == 0 {
			return msgs, nil
		}
		in.ExclusiveStartKey = out.LastEvaluatedKey
	}
}

// CreateSession writes a new session and its initial messages. It fails if the
// session already exists.
func (c *Client) CreateSession(ctx context.Context, session domain.Session) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("repository: CreateSession: session ID is required")
	}
	ttl := c.ttlValue()
	items := []types.TransactWriteItem{{
		Put: &types.Put{
			TableName:           aws.String(c.tableName),
			Item:                sessionItem(session, ttl),
			ConditionExpression: aws.String("attribute_not_exists(PK)"),
		},
	}}
	items = append(items, c.messagePuts(session.ID, session.Messages, ttl)...)

	if err := c.transact(ctx, items); err != nil {
		return fmt.Errorf("repository: CreateSession: %w", err)
	}
	return nil
}

// SaveTurn appends messages and replaces the session metadata in one
// transaction. The write only succeeds while the stored turn count still equals
// expectedTurns; otherwise domain.ErrTurnConflict is returned.
func (c *Client) SaveTurn(ctx context.Context, session domain.Session, appended []domain.Message, expectedTurns int) error {
	if strings.TrimSpace(session.ID) == "" {
		return errors.New("repository: SaveTurn: session ID is required")
	}
	ttl := c.ttlValue()
	items := c.messagePuts(session.ID, appended, ttl)
	items = append(items, types.TransactWriteItem{
		Put: &types.Put{
			TableName:           aws.String(c.tableName),
			Item:                sessionItem(session, ttl),
			ConditionExpression: aws.String("turns = :expected"),
			ExpressionAttributeValues: map[string]types.AttributeValue{
				":expected": &types.AttributeValueMemberN{Value: strconv.Itoa(expectedTurns)},
			},
		},
	})

	if err := c.transact(ctx, items); err != nil {
		return fmt.Errorf("repository: SaveTurn: %w", err)
	}
	return nil
}

func (c *Client) messagePuts(sessionID string, msgs []domain.Message, ttl int64) []types.TransactWriteItem {
	items := make([]types.TransactWriteItem, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, types.TransactWriteItem{
			Put: &types.Put{
				TableName:           aws.String(c.tableName),
				Item:                messageItem(sessionID, m, ttl),
				ConditionExpression: aws.String("attribute_not_exists(PK) AND attribute_not_exists(SK)"),
			},
		})
	}
	return items
}

func (c *Client) transact(ctx context.Context, items []types.TransactWriteItem) error {
	_, err := c.api.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err == nil {
		return nil
	}
	if isConditionFailure(err) {
		return fmt.Errorf("%w: %v", domain.ErrTurnConflict, err)
	}
	return err
}

func isConditionFailure(err error) bool {
	var canceled *types.TransactionCanceledException
	if !errors.As(err, &canceled) {
		return false
	}
	for _, reason := range canceled.CancellationReasons {
		if aws.ToString(reason.Code) == conditionalCheckFailed {
			return true
		}
	}
	return false
}

func sessionItem(s domain.Session, ttl int64) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"PK":           &types.AttributeValueMemberS{Value: sessionPK(s.ID)},
		"SK":           &types.AttributeValueMemberS{Value: skMeta},
		"sessionId":    &types.AttributeValueMemberS{Value: s.ID},
		"turns":        &types.AttributeValueMemberN{Value: strconv.Itoa(s.Turns)},
		"lastActivity": &types.AttributeValueMemberS{Value: s.LastActivity.UTC().Format(time.RFC3339)},
		"destination":  &types.AttributeValueMemberS{Value: s.Context.Destination},
		"dates":        &types.AttributeValueMemberS{Value: s.Context.Dates},
		"budget":       &types.AttributeValueMemberS{Value: s.Context.Budget},
		"preferences":  stringList(s.Context.Preferences),
		"ttl":          &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttl)},
	}
	if s.Context.CurrentTrip != "" {
		item["currentTrip"] = &types.AttributeValueMemberS{Value: s.Context.CurrentTrip}
	}
	return item
}

func messageItem(sessionID string, m domain.Message, ttl int64) map[string]types.AttributeValue {
	item := map[string]types.AttributeValue{
		"PK":        &types.AttributeValueMemberS{Value: sessionPK(sessionID)},
		"SK":        &types.AttributeValueMemberS{Value: msgSK(m.ID)},
		"sessionId": &types.AttributeValueMemberS{Value: sessionID},
		"id":        &types.AttributeValueMemberN{Value: strconv.Itoa(m.ID)},
		"text":      &types.AttributeValueMemberS{Value: m.Text},
		"sender":    &types.AttributeValueMemberS{Value: string(m.Sender)},
		"timestamp": &types.AttributeValueMemberS{Value: m.Timestamp.UTC().Format(time.RFC3339Nano)},
		"ttl":       &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", ttl)},
	}
	if m.Features != nil {
		item["features"] = stringList(m.Features)
	}
	return item
}

func itemToSession(item map[string]types.AttributeValue) (domain.Session, error) {
	turns, err := intAttr(item, "turns")
	if err != nil {
		return domain.Session{}, err
	}
	var last time.Time
	if raw, _ := strAttr(item, "lastActivity"); raw != "" {
		last, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return domain.Session{}, fmt.Errorf("repository: parse lastActivity: %w", err)
		}
	}
	prefs, err := listAttr(item, "preferences")
	if err != nil {
		return domain.Session{}, err
	}
	destination, _ := strAttr(item, "destination") // allow empty
	dates, _ := strAttr(item, "dates")
	budget, _ := strAttr(item, "budget")
	currentTrip, _ := strAttr(item, "currentTrip")

	return domain.Session{
		Turns:        turns,
		LastActivity: last,
		Context: domain.ConversationContext{
			Destination: destination,
			Dates:       dates,
			Budget:      budget,
			Preferences: prefs,
			CurrentTrip: currentTrip,
		},
	}, nil
}

func itemToMessage(item map[string]types.AttributeValue) (domain.Message, error) {
	id, err := intAttr(item, "id")
	if err != nil {
		return domain.Message{}, err
	}
	text, err := strAttr(item, "text")
	if err != nil {
		return domain.Message{}, err
	}
	sender, err := strAttr(item, "sender")
	if err != nil {
		return domain.Message{}, err
	}
	rawTS, err := strAttr(item, "timestamp")
	if err != nil {
		return domain.Message{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, rawTS)
	if err != nil {
		return domain.Message{}, fmt.Errorf("repository: parse timestamp: %w", err)
	}
	features, err := listAttr(item, "features")
	if err != nil {
		return domain.Message{}, err
	}

	return domain.Message{
		ID:        id,
		Text:      text,
		Sender:    domain.Sender(sender),
		Timestamp: ts,
		Features:  features,
	}, nil
}

func stringList(values []string) *types.AttributeValueMemberL {
	l := make([]types.AttributeValue, 0, len(values))
	for _, v := range values {
		l = append(l, &types.AttributeValueMemberS{Value: v})
	}
	return &types.AttributeValueMemberL{Value: l}
}

func strAttr(item map[string]types.AttributeValue, key string) (string, error) {
	v, ok := item[key]
	if !ok {
		return "", fmt.Errorf("repository: missing attribute %q", key)
	}
	s, ok := v.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("repository: attribute %q is not a string", key)
	}
	return s.Value, nil
}

func intAttr(item map[string]types.AttributeValue, key string) (int, error) {
	v, ok := item[key]
	if !ok {
		return 0, fmt.Errorf("repository: missing attribute %q", key)
	}
	n, ok := v.(*types.AttributeValueMemberN)
	if !ok {
		return 0, fmt.Errorf("repository: attribute %q is not a number", key)
	}
	parsed, err := strconv.Atoi(n.Value)
	if err != nil {
		return 0, fmt.Errorf("repository: parse attribute %q: %w", key, err)
	}
	return parsed, nil
}

// listAttr decodes an optional list of strings; a missing attribute is nil.
func listAttr(item map[string]types.AttributeValue, key string) ([]string, error) {
	v, ok := item[key]
	if !ok {
		return nil, nil
	}
	l, ok := v.(*types.AttributeValueMemberL)
	if !ok {
		return nil, fmt.Errorf("repository: attribute %q is not a list", key)
	}
	out := make([]string, 0, len(l.Value))
	for i, el := range l.Value {
		s, ok := el.(*types.AttributeValueMemberS)
		if !ok {
			return nil, fmt.Errorf("repository: attribute %q[%d] is not a string", key, i)
		}
		out = append(out, s.Value)
	}
	return out, nil
}
