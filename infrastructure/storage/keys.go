package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Key layout:
//
//	conv:{id}                         conversation record
//	idx:conv:{participant key}        uniqueness index, value is the conversation id
//	idx:conv-user:{user}:{id}         inbox index
//	msg:{id}                          message record
//	hire:{id}                         hire request record
//	idx:hire-user:{user}:{nanos}:{id} per participant index, chronological
//	profile:{user}                    profile record
//	provider:{user}                   provider roster entry
const (
	PrefixConversation = "conv:"
	PrefixMessage      = "msg:"
	PrefixHireRequest  = "hire:"
	PrefixProfile      = "profile:"
	PrefixProvider     = "provider:"
	PrefixIndex        = "idx:"
)

func conversationKey(id uuid.UUID) []byte {
	return []byte(PrefixConversation + id.String())
}

func participantIndexKey(participantKey string) []byte {
	return []byte(PrefixIndex + "conv:" + participantKey)
}

func inboxPrefix(userID string) []byte {
	return []byte(PrefixIndex + "conv-user:" + userID + ":")
}

func inboxKey(userID string, conversationID uuid.UUID) []byte {
	return append(inboxPrefix(userID), conversationID.String()...)
}

func messageKey(id uuid.UUID) []byte {
	return []byte(PrefixMessage + id.String())
}

func hireRequestKey(id uuid.UUID) []byte {
	return []byte(PrefixHireRequest + id.String())
}

func hireUserPrefix(userID string) []byte {
	return []byte(PrefixIndex + "hire-user:" + userID + ":")
}

// hireUserKey pads the timestamp to 19 digits so that keys sort chronologically.
func hireUserKey(userID string, createdAt time.Time, id uuid.UUID) []byte {
	return append(hireUserPrefix(userID), fmt.Sprintf("%019d:%s", createdAt.UnixNano(), id)...)
}

// ownsHireUserKey reports whether key was written for exactly the user of prefix
// and not for a longer id sharing it, such as "a:x" under "a:".
func ownsHireUserKey(prefix, key []byte) bool {
	rest := string(key[len(prefix):])
	stamp, id, found := strings.Cut(rest, ":")
	if !found || len(stamp) != 19 || strings.Trim(stamp, "0123456789") != "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

func profileKey(userID string) []byte {
	return []byte(PrefixProfile + userID)
}

func providerKey(userID string) []byte {
	return []byte(PrefixProvider + userID)
}
