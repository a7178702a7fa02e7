package storage

import (
	"market-lab/infrastructure/record"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDescribe(t *testing.T) {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("should describe a hire request", func(t *testing.T) {
		req := require.New(t)
		val, err := record.Encode(record.HireRequest{
			ID: "h1", ClientID: "alice", DesignerID: "bob", Status: "pending",
			Requirements: record.Requirements{Title: "Logo"}, CreatedAt: at, UpdatedAt: at,
		})
		req.NoError(err)

		entry := Describe(PrefixHireRequest+"h1", val)

		req.Equal("HIRE", entry.Kind)
		req.Equal("h1", entry.EntityID)
		req.Equal("[pending] alice -> bob: Logo", entry.Detail)
		req.Equal("2026-03-01 10:00:00", entry.Timestamp)
	})

	t.Run("should describe a message", func(t *testing.T) {
		req := require.New(t)
		val, err := record.Encode(record.Message{ID: "m1", SenderID: "a", ReceiverID: "b", Content: "hi", CreatedAt: at})
		req.NoError(err)

		entry := Describe(PrefixMessage+"m1", val)

		req.Equal("MESSAGE", entry.Kind)
		req.Equal("a -> b read=false: hi", entry.Detail)
	})

	t.Run("should show index values raw", func(t *testing.T) {
		req := require.New(t)

		entry := Describe("idx:conv:alice|bob", []byte("c1"))

		req.Equal("INDEX", entry.Kind)
		req.Equal("conv:alice|bob", entry.EntityID)
		req.Equal("c1", entry.Detail)
	})

	t.Run("should report garbage instead of failing", func(t *testing.T) {
		req := require.New(t)

		entry := Describe(PrefixProfile+"u1", []byte{0x01, 0x02})

		req.Equal("PROFILE", entry.Kind)
		req.Contains(entry.Detail, "Error:")
	})
}
