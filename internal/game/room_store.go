package game

import (
	"math/rand/v2"
	"sync"

	log "github.com/sirupsen/logrus"
)

// RoomStore is the process-wide registry of live rooms.
type RoomStore struct {
	mu    sync.Mutex
	rooms map[string]*Room
	rng   *rand.Rand
	opts  RoomOptions

	// idMu guards playerIDs and is taken while a room lock is held.
	idMu      sync.Mutex
	playerIDs map[string]struct{}
}

// NewRoomStore returns an empty registry; opts are applied to every room it creates.
func NewRoomStore(opts RoomOptions) *RoomStore {
	opts = opts.withDefaults()
	s := &RoomStore{
		rooms:     make(map[string]*Room),
		rng:       opts.NewRand(),
		playerIDs: make(map[string]struct{}),
	}
	opts.ReservePlayerID = s.reservePlayerID
	s.opts = opts
	return s
}

// CreateRoom allocates a code unique among live rooms and seats the creator as host.
func (s *RoomStore) CreateRoom(creatorName string) (*Room, string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	code := newRoomCode(s.rng, func(c string) bool {
		_, taken := s.rooms[c]
		return taken
	})
	room, hostID := NewRoom(code, creatorName, s.opts)
	s.rooms[code] = room
	return room, hostID
}

// JoinRoom seats a new player in the room with the given (case-insensitive) code.
func (s *RoomStore) JoinRoom(code, name string) (*Room, string, error) {
	room, ok := s.GetRoom(code)
	if !ok {
		return nil, "", ErrRoomNotFound
	}
	playerID, err := room.Join(name)
	if err != nil {
		return nil, "", err
	}
	return room, playerID, nil
}

// GetRoom retrieves a live room.
func (s *RoomStore) GetRoom(code string) (*Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[NormalizeRoomCode(code)]
	return r, ok
}

// Disconnect runs the room's disconnect handling and drops the room once nobody is connected.
func (s *RoomStore) Disconnect(code, playerID string) {
	room, ok := s.GetRoom(code)
	if !ok {
		return
	}
	if room.HandleDisconnect(playerID) {
		s.deleteRoom(room)
		s.releasePlayerIDs(room)
	}
}

// reservePlayerID claims id across every live room.
func (s *RoomStore) reservePlayerID(id string) bool {
	s.idMu.Lock()
	defer s.idMu.Unlock()
	if _, taken := s.playerIDs[id]; taken {
		return false
	}
	s.playerIDs[id] = struct{}{}
	return true
}

func (s *RoomStore) releasePlayerIDs(room *Room) {
	room.Mu.Lock()
	defer room.Mu.Unlock()
	s.idMu.Lock()
	defer s.idMu.Unlock()
	for _, p := range room.Players {
		delete(s.playerIDs, p.ID)
	}
}

func (s *RoomStore) deleteRoom(room *Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.rooms[room.ID]; ok && cur == room {
		delete(s.rooms, room.ID)
		log.WithField("room", room.ID).Info("room destroyed")
	}
}

// Rooms returns a copy of the live room set.
func (s *RoomStore) Rooms() []*Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, r := range s.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// Len is the number of live rooms.
func (s *RoomStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}
