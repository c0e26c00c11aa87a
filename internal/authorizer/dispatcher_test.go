package authorizer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-petr/authorizer/internal/domain"
)

type fakeOperation struct {
	key    string
	fields json.RawMessage
}

func (f *fakeOperation) Key() string    { return f.key }
func (f *fakeOperation) Run()           {}
func (f *fakeOperation) Result() Result { return Result{} }
func (f *fakeOperation) operation()     {}

func fakeConstructor(key string) Constructor {
	return func(fields json.RawMessage, s *State) (Operation, error) {
		return &fakeOperation{key: key, fields: fields}, nil
	}
}

func decode(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		t.Fatalf("json.Unmarshal(%q) returned error: %v", s, err)
	}

	return obj
}

func TestDispatch(t *testing.T) {
	d := NewDispatcher()
	d.Register("first", fakeConstructor("first"))
	d.Register("second", fakeConstructor("second"))

	testCases := []struct {
		name       string
		input      string
		wantKey    string
		wantFields string
	}{
		{
			name:       "First",
			input:      `{"first": {"a": 1}}`,
			wantKey:    "first",
			wantFields: `{"a": 1}`,
		},
		{
			name:       "Second",
			input:      `{"second": {"b": 2}}`,
			wantKey:    "second",
			wantFields: `{"b": 2}`,
		},
		{
			name:       "FirstRegisteredWins",
			input:      `{"second": {"b": 2}, "first": {"a": 1}}`,
			wantKey:    "first",
			wantFields: `{"a": 1}`,
		},
		{
			name:  "NoMatch",
			input: `{"something_else": {"c": 3}}`,
		},
		{
			name:  "Empty",
			input: `{}`,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			op, err := d.Dispatch(decode(t, tc.input), &State{})
			require.NoError(t, err)

			if tc.wantKey == "" {
				require.Nil(t, op)
				return
			}

			got, ok := op.(*fakeOperation)
			require.True(t, ok)
			require.Equal(t, tc.wantKey, got.Key())
			require.JSONEq(t, tc.wantFields, string(got.fields))
		})
	}
}

func TestDispatchConstructorError(t *testing.T) {
	errBoom := errors.New("boom")

	d := NewDispatcher()
	d.Register("first", func(json.RawMessage, *State) (Operation, error) {
		return nil, errBoom
	})

	op, err := d.Dispatch(decode(t, `{"first": {}}`), &State{})
	require.Nil(t, op)
	require.ErrorIs(t, err, errBoom)
}

func TestKeys(t *testing.T) {
	require.Empty(t, NewDispatcher().Keys())
	require.Equal(t, []string{KeyAccount, KeyTransaction}, New().Operations())
}

func TestConstructors(t *testing.T) {
	s := &State{}

	creation := newAccountCreation(nil)

	op, err := creation(json.RawMessage(`{"activeCard": true, "availableLimit": 100, "extra": 1}`), s)
	require.NoError(t, err)
	require.Equal(t, true, op.(*AccountCreation).ActiveCard)
	require.EqualValues(t, 100, op.(*AccountCreation).AvailableLimit)

	op, err = creation(json.RawMessage(`{}`), s)
	require.NoError(t, err)
	require.Equal(t, false, op.(*AccountCreation).ActiveCard)
	require.EqualValues(t, 0, op.(*AccountCreation).AvailableLimit)

	op, err = creation(json.RawMessage(`{"ACTIVECARD": true, "AvailableLIMIT": 100}`), s)
	require.NoError(t, err)
	require.Equal(t, false, op.(*AccountCreation).ActiveCard)
	require.EqualValues(t, 0, op.(*AccountCreation).AvailableLimit)

	_, err = creation(json.RawMessage(`{"availableLimit": "lots"}`), s)
	require.ErrorIs(t, err, domain.ErrMalformedInput)

	transaction := newTransaction(nil)

	op, err = transaction(json.RawMessage(`{"time": "2019-02-13T10:00:00.000Z"}`), s)
	require.NoError(t, err)
	require.Equal(t, "", op.(*Transaction).Merchant)
	require.EqualValues(t, 0, op.(*Transaction).Amount)
	require.Nil(t, op.(*Transaction).BoundAccount())

	_, err = transaction(json.RawMessage(`{"merchant": "Burger King", "amount": 20}`), s)
	require.ErrorIs(t, err, domain.ErrMissingTime)

	_, err = transaction(json.RawMessage(`{"merchant": "Burger King", "amount": 20, "Time": "2019-02-13T10:00:00.000Z"}`), s)
	require.ErrorIs(t, err, domain.ErrMissingTime)

	_, err = transaction(json.RawMessage(`{"amount": 20.5, "time": "2019-02-13T10:00:00.000Z"}`), s)
	require.ErrorIs(t, err, domain.ErrMalformedInput)

	_, err = transaction(json.RawMessage(`{"merchant": "Burger King", "time": "yesterday"}`), s)
	require.ErrorIs(t, err, domain.ErrInvalidTime)
}
