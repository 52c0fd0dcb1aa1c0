// Package seed loads a small fixed set of demo users and posts.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"blog_api/internal/services"
)

type fixture struct {
	user  services.CreateUserRequest
	posts []services.CreatePostRequest
}

var fixtures = []fixture{
	{
		user: services.CreateUserRequest{
			Name:     "Leanne Graham",
			Username: "Bret",
			Email:    "Sincere@april.biz",
			Phone:    "1-770-736-8031 x56442",
			Website:  "hildegard.org",
			Address: &services.AddressInput{
				Street:  "Kulas Light",
				Suite:   "Apt. 556",
				City:    "Gwenborough",
				Zipcode: "92998-3874",
				Geo:     &services.GeoInput{Lat: "-37.3159", Lng: "81.1496"},
			},
			Company: &services.CompanyInput{
				Name:        "Romaguera-Crona",
				CatchPhrase: "Multi-layered client-server neural-net",
				Bs:          "harness real-time e-markets",
			},
		},
		posts: []services.CreatePostRequest{{
			Title: "sunt aut facere repellat provident occaecati",
			Body:  "quia et suscipit suscipit recusandae consequuntur expedita et cum",
		}},
	},
	{
		user: services.CreateUserRequest{
			Name:     "Ervin Howell",
			Username: "Antonette",
			Email:    "Shanna@melissa.tv",
			Phone:    "010-692-6593 x09125",
			Website:  "anastasia.net",
			Address: &services.AddressInput{
				Street:  "Victor Plains",
				Suite:   "Suite 879",
				City:    "Wisokyburgh",
				Zipcode: "90566-7771",
				Geo:     &services.GeoInput{Lat: "-43.9509", Lng: "-34.4618"},
			},
			Company: &services.CompanyInput{
				Name:        "Deckow-Crist",
				CatchPhrase: "Proactive didactic contingency",
				Bs:          "synergize scalable supply-chains",
			},
		},
		posts: []services.CreatePostRequest{{
			Title: "qui est esse",
			Body:  "est rerum tempore vitae sequi sint nihil reprehenderit dolor beatae ea",
		}},
	},
}

// Result counts what Run actually inserted.
type Result struct {
	Users   int
	Posts   int
	Skipped int
}

// Run inserts the fixtures through the services so they pass the same
// validation as API writes. Users that already exist are skipped together
// with their posts, which makes Run safe to repeat.
func Run(ctx context.Context, users *services.UserService, posts *services.PostService, log *logrus.Logger) (Result, error) {
	var res Result

	for _, f := range fixtures {
		user, err := users.CreateUser(ctx, f.user)
		if errors.Is(err, services.ErrDuplicateUser) {
			log.WithField("username", f.user.Username).Info("seed user already present, skipping")
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("seed user %s: %w", f.user.Username, err)
		}
		res.Users++

		for _, p := range f.posts {
			p.UserID = services.NumericID(user.ID)
			if _, err := posts.CreatePost(ctx, p); err != nil {
				return res, fmt.Errorf("seed post %q: %w", p.Title, err)
			}
			res.Posts++
		}
	}

	log.WithFields(logrus.Fields{
		"users":   res.Users,
		"posts":   res.Posts,
		"skipped": res.Skipped,
	}).Info("seed complete")

	return res, nil
}
