package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/DahliaNoir71/chatbot-horror-movies/domain"
)

// FilmFinder is the slice of the store the lookup pipeline needs.
type FilmFinder interface {
	SearchFilmsByTitle(ctx context.Context, title string, limit int) ([]domain.Film, error)
}

// Common question prefixes to strip when extracting a film title.
var filmQueryPrefixes = []string{
	"tell me about",
	"parle-moi de",
	"parle moi de",
	"dis-moi",
	"dis moi",
	"quelle est la note du film",
	"quelle est la note de",
	"what is",
	"what's",
	"info on",
	"details about",
	"details sur",
	"details for",
	"information about",
	"information on",
	"information sur",
	"look up",
	"find",
	"search for",
	"search",
	"show me",
	"montre-moi",
	"cherche",
}

var filmQuerySuffixes = []string{
	"the movie",
	"the film",
	"le film",
	"movie",
	"film",
}

// filmDetails answers a film_details message from the catalog.
func (s *Service) filmDetails(ctx context.Context, message string) (string, error) {
	query := extractFilmQuery(message)
	films, err := s.films.SearchFilmsByTitle(ctx, query, 3)
	if err != nil {
		return "", fmt.Errorf("failed to search films: %w", err)
	}
	if len(films) == 0 {
		return fmt.Sprintf(
			"Je n'ai pas trouve de film correspondant a '%s' dans notre base. "+
				"Essayez avec le titre exact, ou demandez-moi une recommandation !", query), nil
	}
	return formatFilmDetails(films[0]), nil
}

// extractFilmQuery strips common question prefixes/suffixes from the
// message to isolate the likely film title.
func extractFilmQuery(message string) string {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, prefix := range filmQueryPrefixes {
		if strings.HasPrefix(lower, prefix) {
			lower = strings.TrimSpace(lower[len(prefix):])
			break
		}
	}
	lower = strings.TrimRight(lower, "?!. ")
	for _, suffix := range filmQuerySuffixes {
		if strings.HasSuffix(lower, suffix) {
			lower = strings.TrimSpace(lower[:len(lower)-len(suffix)])
		}
	}

	if lower == "" {
		return message
	}
	return lower
}

func formatFilmDetails(film domain.Film) string {
	lines := []string{fmt.Sprintf("**%s**", film.Title)}
	if film.ReleaseYear != 0 {
		lines = append(lines, fmt.Sprintf("Sortie : %d", film.ReleaseYear))
	}
	if film.VoteAverage != 0 {
		lines = append(lines, fmt.Sprintf("Note TMDB : %.1f/10", film.VoteAverage))
	}
	if film.RuntimeMin != 0 {
		lines = append(lines, fmt.Sprintf("Duree : %dh%02d", film.RuntimeMin/60, film.RuntimeMin%60))
	}
	if film.Overview != "" {
		lines = append(lines, "", film.Overview)
	}
	if film.Tagline != "" {
		lines = append(lines, "", fmt.Sprintf("_\"%s\"_", film.Tagline))
	}
	return strings.Join(lines, "\n")
}
