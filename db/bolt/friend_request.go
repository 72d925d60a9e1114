package bolt

import (
	"errors"
	"sort"
	"time"

	"github.com/trailfeathers/trailfeathers/db"
	"go.etcd.io/bbolt"
)

func findFriendRequestByPairTx(tx *bbolt.Tx, a int, b int) (req db.FriendRequest, err error) {
	low, high := db.FriendPair(a, b)

	requests, err := findObjectsTx(tx, friendRequestBucket, func(r db.FriendRequest) bool {
		l, h := db.FriendPair(r.SenderID, r.ReceiverID)
		return l == low && h == high
	})
	if err != nil {
		return
	}

	if len(requests) == 0 {
		err = db.ErrNotFound
		return
	}

	req = requests[0]
	return
}

func (d *BoltDb) CreateFriendRequest(senderID int, receiverID int) (newRequest db.FriendRequest, err error) {
	req := db.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     db.FriendRequestPending,
		Created:    time.Now().UTC(),
	}

	if err = req.Validate(); err != nil {
		return
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		if _, err := getUserTx(tx, receiverID); err != nil {
			return err
		}

		existing, err := findFriendRequestByPairTx(tx, senderID, receiverID)
		if err == nil {
			return existing.Conflict(senderID)
		}
		if !errors.Is(err, db.ErrNotFound) {
			return err
		}

		req.ID, err = nextIDTx(tx, friendRequestBucket)
		if err != nil {
			return err
		}

		return putObjectTx(tx, friendRequestBucket, intObjectID(req.ID), req)
	})

	if err != nil {
		return
	}

	newRequest = req
	return
}

func (d *BoltDb) GetFriendRequest(requestID int) (db.FriendRequest, error) {
	return getObject[db.FriendRequest](d, friendRequestBucket, intObjectID(requestID))
}

func (d *BoltDb) ResolveFriendRequest(requestID int, actingUserID int, status db.FriendRequestStatus) (resolved bool, err error) {
	if !status.IsResolution() {
		err = db.NewValidationError("status", "can not resolve a friend request to %q", status)
		return
	}

	err = d.db.Update(func(tx *bbolt.Tx) error {
		req, err := getObjectTx[db.FriendRequest](tx, friendRequestBucket, intObjectID(requestID))
		if errors.Is(err, db.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if req.ReceiverID != actingUserID || req.Status != db.FriendRequestPending {
			return nil
		}

		req.Status = status
		if err = putObjectTx(tx, friendRequestBucket, intObjectID(req.ID), req); err != nil {
			return err
		}

		resolved = true
		return nil
	})

	if err != nil {
		resolved = false
	}

	return
}

func (d *BoltDb) GetIncomingFriendRequests(userID int) (requests []db.FriendRequestWithSender, err error) {
	requests = make([]db.FriendRequestWithSender, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		pending, err := findObjectsTx(tx, friendRequestBucket, func(r db.FriendRequest) bool {
			return r.ReceiverID == userID && r.Status == db.FriendRequestPending
		})
		if err != nil {
			return err
		}

		for _, req := range pending {
			sender, err := getUserTx(tx, req.SenderID)
			if err != nil {
				return err
			}
			requests = append(requests, db.FriendRequestWithSender{
				FriendRequest:  req,
				SenderUsername: sender.Username,
			})
		}
		return nil
	})

	sort.SliceStable(requests, newestFirst(func(i int) (time.Time, int) {
		return requests[i].Created, requests[i].ID
	}))

	return
}

func (d *BoltDb) GetFriends(userID int) (friends []db.User, err error) {
	friends = make([]db.User, 0)

	err = d.db.View(func(tx *bbolt.Tx) error {
		accepted, err := findObjectsTx(tx, friendRequestBucket, func(r db.FriendRequest) bool {
			return r.Status == db.FriendRequestAccepted && (r.SenderID == userID || r.ReceiverID == userID)
		})
		if err != nil {
			return err
		}

		for _, req := range accepted {
			friend, err := getUserTx(tx, req.Counterpart(userID))
			if err != nil {
				return err
			}
			friends = append(friends, friend)
		}
		return nil
	})

	sort.Slice(friends, func(i, j int) bool {
		return friends[i].Username < friends[j].Username
	})

	return
}

func (d *BoltDb) AreFriends(userID int, otherID int) (bool, error) {
	var req db.FriendRequest

	err := d.db.View(func(tx *bbolt.Tx) (err error) {
		req, err = findFriendRequestByPairTx(tx, userID, otherID)
		return
	})

	if errors.Is(err, db.ErrNotFound) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return req.Status == db.FriendRequestAccepted, nil
}
