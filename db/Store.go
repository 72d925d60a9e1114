package db

// UserManager is the identity store.
type UserManager interface {
	CreateUser(user UserWithPwd) (User, error)
	GetUser(userID int) (User, error)
	GetUserByUsername(username string) (User, error)
	GetUserWithPwd(username string) (UserWithPwd, error)
}

// FriendRequestManager keeps at most one friend request per unordered pair of
// users. Implementations perform the pair check and the insert atomically.
type FriendRequestManager interface {
	CreateFriendRequest(senderID int, receiverID int) (FriendRequest, error)
	GetFriendRequest(requestID int) (FriendRequest, error)
	// ResolveFriendRequest moves a pending request addressed to actingUserID to
	// status. It returns false when nothing changed.
	ResolveFriendRequest(requestID int, actingUserID int, status FriendRequestStatus) (bool, error)
	GetIncomingFriendRequests(userID int) ([]FriendRequestWithSender, error)
	GetFriends(userID int) ([]User, error)
	AreFriends(userID int, otherID int) (bool, error)
}

type TripManager interface {
	// CreateTrip stores the trip together with its creator roster row.
	CreateTrip(trip Trip) (Trip, error)
	GetTrip(tripID int) (Trip, error)
	GetUserTrips(userID int) ([]Trip, error)
	GetTripCollaborators(tripID int) ([]TripCollaboratorWithUser, error)
	GetTripCollaborator(tripID int, userID int) (TripCollaborator, error)
	CreateTripCollaborator(collaborator TripCollaborator) (TripCollaborator, error)
}

type TripInviteManager interface {
	CreateTripInvite(invite TripInvite) (TripInvite, error)
	GetTripInvite(inviteID int) (TripInvite, error)
	// ResolveTripInvite answers a pending invite addressed to actingUserID.
	// Accepting also adds the invitee to the roster in the same transaction.
	ResolveTripInvite(inviteID int, actingUserID int, status TripInviteStatus) (bool, error)
	GetPendingTripInvites(tripID int) ([]TripInviteWithUsers, error)
	GetIncomingTripInvites(userID int) ([]TripInviteWithTrip, error)
	HasPendingTripInvite(userID int, tripID int) (bool, error)
}

type GearManager interface {
	CreateGearItem(item GearItem) (GearItem, error)
	GetGearItems(userID int) ([]GearItem, error)
}

type Store interface {
	Connect() error
	Close() error
	// Migrate creates or upgrades the schema. It is safe to call repeatedly.
	Migrate() error

	UserManager
	FriendRequestManager
	TripManager
	TripInviteManager
	GearManager
}
