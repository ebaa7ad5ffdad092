package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pitabwire/lingo/internal/watch"
)

// WatchTestSuite covers change notification over a resource tree.
type WatchTestSuite struct {
	suite.Suite
}

func TestWatchSuite(t *testing.T) {
	suite.Run(t, &WatchTestSuite{})
}

func (s *WatchTestSuite) TestNotifiesOnWrite() {
	ctx := context.Background()
	root := s.T().TempDir()

	w, err := watch.New(root)
	s.Require().NoError(err)
	defer w.Close()

	changed := make(chan struct{}, 1)
	w.OnChange(func() {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	s.Require().NoError(w.Start(ctx))

	err = os.WriteFile(filepath.Join(root, "en.toml"), []byte(`Greeting = "Hello"`), 0o600)
	s.Require().NoError(err)

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		s.Require().Fail("expected a change notification after writing a resource file")
	}
}

func (s *WatchTestSuite) TestSettlesBurstsIntoOneNotification() {
	ctx := context.Background()
	root := s.T().TempDir()

	w, err := watch.New(root)
	s.Require().NoError(err)
	defer w.Close()

	notifications := make(chan struct{}, 16)
	w.OnChange(func() { notifications <- struct{}{} })

	s.Require().NoError(w.Start(ctx))

	for i := 0; i < 5; i++ {
		err = os.WriteFile(filepath.Join(root, "en.toml"), []byte(`Greeting = "Hello"`), 0o600)
		s.Require().NoError(err)
	}

	select {
	case <-notifications:
	case <-time.After(5 * time.Second):
		s.Require().Fail("expected a notification after the burst settled")
	}

	// the burst happened within the settle window, so it collapses
	select {
	case <-notifications:
		s.Require().Fail("burst writes should settle into a single notification")
	case <-time.After(watch.DefaultSettleDelay * 2):
	}
}

func (s *WatchTestSuite) TestCloseStopsNotifications() {
	ctx := context.Background()
	root := s.T().TempDir()

	w, err := watch.New(root)
	s.Require().NoError(err)

	notified := make(chan struct{}, 1)
	w.OnChange(func() {
		select {
		case notified <- struct{}{}:
		default:
		}
	})

	s.Require().NoError(w.Start(ctx))
	s.Require().NoError(w.Close())

	err = os.WriteFile(filepath.Join(root, "en.toml"), []byte(`Greeting = "Hello"`), 0o600)
	s.Require().NoError(err)

	select {
	case <-notified:
		s.Require().Fail("a closed watcher should not notify")
	case <-time.After(watch.DefaultSettleDelay * 3):
	}
}
