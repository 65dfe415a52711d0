package location

import (
	"testing"
)

func TestGeoStore_GetBeforeFirstFix(t *testing.T) {
	s := NewGeoStore()
	if s.Get() != nil {
		t.Fatal("expected nil before first set")
	}
}

func TestGeoStore_SetNotifiesInOrder(t *testing.T) {
	s := NewGeoStore()
	var got []float64
	s.Subscribe(func(loc *GeoLocation) {
		if loc != nil {
			got = append(got, loc.Latitude)
		}
	})

	for _, lat := range []float64{41.1, 41.2, 41.3} {
		s.Set(&GeoLocation{Latitude: lat, Longitude: -87})
	}

	if len(got) != 3 || got[0] != 41.1 || got[1] != 41.2 || got[2] != 41.3 {
		t.Errorf("notifications = %v", got)
	}
	if s.Get().Latitude != 41.3 {
		t.Errorf("current = %v, want 41.3", s.Get().Latitude)
	}
}

func TestGeoStore_SetNilNotifies(t *testing.T) {
	s := NewGeoStore()
	s.Set(&GeoLocation{Latitude: 1, Longitude: 1})

	calls := 0
	var last *GeoLocation = &GeoLocation{}
	s.Subscribe(func(loc *GeoLocation) {
		calls++
		last = loc
	})
	s.Set(nil)

	if calls != 1 || last != nil || s.Get() != nil {
		t.Errorf("calls=%d last=%v current=%v", calls, last, s.Get())
	}
}

func TestGeoStore_Unsubscribe(t *testing.T) {
	s := NewGeoStore()
	a, b := 0, 0
	unsubA := s.Subscribe(func(*GeoLocation) { a++ })
	s.Subscribe(func(*GeoLocation) { b++ })

	s.Set(&GeoLocation{Latitude: 1, Longitude: 1})
	unsubA()
	unsubA()
	s.Set(&GeoLocation{Latitude: 2, Longitude: 2})

	if a != 1 || b != 2 {
		t.Errorf("a=%d b=%d, want 1 and 2", a, b)
	}
	if s.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", s.Subscribers())
	}
}

func TestGeoStore_SetCopiesValue(t *testing.T) {
	s := NewGeoStore()
	in := &GeoLocation{Latitude: 1, Longitude: 1}
	s.Set(in)
	in.Latitude = 99
	if s.Get().Latitude != 1 {
		t.Error("store must not alias the caller's value")
	}
}

func TestGeoStore_ListenerMayReadStore(t *testing.T) {
	s := NewGeoStore()
	var seen float64
	s.Subscribe(func(*GeoLocation) {
		seen = s.Get().Latitude
	})
	s.Set(&GeoLocation{Latitude: 7, Longitude: 7})
	if seen != 7 {
		t.Errorf("listener saw %v, want 7", seen)
	}
}

func TestShared_IsSingleton(t *testing.T) {
	if Shared() != Shared() {
		t.Fatal("Shared() must return the same store")
	}
}
