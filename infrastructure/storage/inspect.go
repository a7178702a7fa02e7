package storage

import (
	"fmt"
	"market-lab/infrastructure/record"
	"strings"
)

// InspectEntry is a human readable view of one badger entry.
type InspectEntry struct {
	Kind      string
	EntityID  string
	Timestamp string
	Detail    string
}

// Describe decodes a raw entry according to its key prefix.
func Describe(key string, val []byte) InspectEntry {
	switch {
	case strings.HasPrefix(key, PrefixIndex):
		return InspectEntry{Kind: "INDEX", EntityID: strings.TrimPrefix(key, PrefixIndex), Detail: string(val)}

	case strings.HasPrefix(key, PrefixConversation):
		var r record.Conversation
		if err := record.Decode(val, &r); err != nil {
			return undecodable("CONVERSATION", key, err)
		}
		return InspectEntry{
			Kind:      "CONVERSATION",
			EntityID:  r.ID,
			Timestamp: r.CreatedAt.Format("2006-01-02 15:04:05"),
			Detail:    fmt.Sprintf("%s (%d messages)", strings.Join(r.Participants, ", "), len(r.MessageIDs)),
		}

	case strings.HasPrefix(key, PrefixMessage):
		var r record.Message
		if err := record.Decode(val, &r); err != nil {
			return undecodable("MESSAGE", key, err)
		}
		return InspectEntry{
			Kind:      "MESSAGE",
			EntityID:  r.ID,
			Timestamp: r.CreatedAt.Format("2006-01-02 15:04:05"),
			Detail:    fmt.Sprintf("%s -> %s read=%t: %s", r.SenderID, r.ReceiverID, r.Read, r.Content),
		}

	case strings.HasPrefix(key, PrefixHireRequest):
		var r record.HireRequest
		if err := record.Decode(val, &r); err != nil {
			return undecodable("HIRE", key, err)
		}
		return InspectEntry{
			Kind:      "HIRE",
			EntityID:  r.ID,
			Timestamp: r.UpdatedAt.Format("2006-01-02 15:04:05"),
			Detail:    fmt.Sprintf("[%s] %s -> %s: %s", r.Status, r.ClientID, r.DesignerID, r.Requirements.Title),
		}

	case strings.HasPrefix(key, PrefixProfile):
		var r record.Profile
		if err := record.Decode(val, &r); err != nil {
			return undecodable("PROFILE", key, err)
		}
		return InspectEntry{
			Kind:      "PROFILE",
			EntityID:  r.UserID,
			Timestamp: r.CreatedAt.Format("2006-01-02 15:04:05"),
			Detail:    fmt.Sprintf("%s <%s> address=%q", r.DisplayName, r.Email, r.AddressLine),
		}

	case strings.HasPrefix(key, PrefixProvider):
		return InspectEntry{Kind: "PROVIDER", EntityID: strings.TrimPrefix(key, PrefixProvider)}
	}
	return InspectEntry{Kind: "UNKNOWN", EntityID: key, Detail: fmt.Sprintf("%d bytes", len(val))}
}

func undecodable(kind, key string, err error) InspectEntry {
	return InspectEntry{Kind: kind, EntityID: key, Detail: "Error: " + err.Error()}
}
