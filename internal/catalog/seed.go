package catalog

import (
	"context"
	"fmt"
)

// seedFilm is one entry of the bundled sample catalog.
type seedFilm struct {
	Title       string
	Year        int
	Rating      float64
	Description string
	Genres      []string
	Actors      []string
}

var seedFilms = []seedFilm{
	{"Inception", 2010, 8.8, "A thief who steals corporate secrets through dream-sharing technology is given the inverse task of planting an idea.", []string{"Sci-Fi", "Thriller", "Action"}, []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt", "Ellen Page", "Tom Hardy"}},
	{"The Matrix", 1999, 8.7, "A computer hacker learns about the true nature of reality and his role in the war against its controllers.", []string{"Sci-Fi", "Action"}, []string{"Keanu Reeves", "Laurence Fishburne", "Carrie-Anne Moss"}},
	{"Interstellar", 2014, 8.6, "A team of explorers travel through a wormhole in space in an attempt to ensure humanity's survival.", []string{"Sci-Fi", "Drama", "Adventure"}, []string{"Matthew McConaughey", "Anne Hathaway", "Jessica Chastain"}},
	{"Blade Runner 2049", 2017, 8.0, "A young blade runner's discovery of a long-buried secret leads him to track down former blade runner Rick Deckard.", []string{"Sci-Fi", "Thriller"}, []string{"Ryan Gosling", "Harrison Ford", "Ana de Armas"}},
	{"The Terminator", 1984, 8.0, "A cyborg assassin is sent back in time to kill Sarah Connor, whose unborn son is destined to lead humanity in a war against machines.", []string{"Sci-Fi", "Action", "Thriller"}, []string{"Arnold Schwarzenegger", "Linda Hamilton", "Michael Biehn"}},
	{"The Dark Knight", 2008, 9.0, "When the menace known as the Joker wreaks havoc on Gotham, Batman must accept one of the greatest psychological tests.", []string{"Action", "Crime", "Drama"}, []string{"Christian Bale", "Heath Ledger", "Aaron Eckhart", "Michael Caine"}},
	{"Mad Max: Fury Road", 2015, 8.1, "In a post-apocalyptic wasteland, a woman rebels against a tyrannical ruler in search for her homeland.", []string{"Action", "Adventure", "Sci-Fi"}, []string{"Tom Hardy", "Charlize Theron", "Nicholas Hoult"}},
	{"John Wick", 2014, 7.4, "An ex-hitman comes out of retirement to track down the gangsters that killed his dog.", []string{"Action", "Thriller"}, []string{"Keanu Reeves", "Michael Nyqvist", "Alfie Allen"}},
	{"Die Hard", 1988, 8.2, "An NYPD officer tries to save his wife and others taken hostage by German terrorists during a Christmas party.", []string{"Action", "Thriller"}, []string{"Bruce Willis", "Alan Rickman", "Bonnie Bedelia"}},
	{"The Shawshank Redemption", 1994, 9.3, "Two imprisoned men bond over years, finding solace and eventual redemption through acts of common decency.", []string{"Drama"}, []string{"Tim Robbins", "Morgan Freeman", "Bob Gunton"}},
	{"Forrest Gump", 1994, 8.8, "The presidencies of Kennedy and Johnson unfold through the perspective of an Alabama man with an IQ of 75.", []string{"Drama", "Romance"}, []string{"Tom Hanks", "Robin Wright", "Gary Sinise"}},
	{"The Green Mile", 1999, 8.6, "The lives of guards on Death Row are affected by one of their charges: a black man accused of child murder.", []string{"Drama", "Fantasy"}, []string{"Tom Hanks", "Michael Clarke Duncan", "David Morse"}},
	{"Schindler's List", 1993, 9.0, "In German-occupied Poland, industrialist Oskar Schindler gradually becomes concerned for his Jewish workforce.", []string{"Drama", "History"}, []string{"Liam Neeson", "Ralph Fiennes", "Ben Kingsley"}},
	{"The Silence of the Lambs", 1991, 8.6, "A young FBI cadet must receive the help of an incarcerated cannibal killer to catch another serial killer.", []string{"Thriller", "Crime", "Drama"}, []string{"Jodie Foster", "Anthony Hopkins", "Lawrence A. Bonney"}},
	{"Se7en", 1995, 8.6, "Two detectives hunt a serial killer who uses the seven deadly sins as his motives.", []string{"Thriller", "Crime", "Drama"}, []string{"Brad Pitt", "Morgan Freeman", "Kevin Spacey"}},
	{"Shutter Island", 2010, 8.2, "A U.S. Marshal investigates the disappearance of a murderer who escaped from a hospital for the criminally insane.", []string{"Thriller", "Mystery"}, []string{"Leonardo DiCaprio", "Mark Ruffalo", "Ben Kingsley"}},
	{"The Grand Budapest Hotel", 2014, 8.1, "A writer encounters the owner of an aging high-class hotel, who tells him of his early years.", []string{"Comedy", "Adventure", "Drama"}, []string{"Ralph Fiennes", "F. Murray Abraham", "Mathieu Amalric"}},
	{"Pulp Fiction", 1994, 8.9, "The lives of two mob hitmen, a boxer, and a pair of diner bandits intertwine in four tales of violence.", []string{"Crime", "Drama"}, []string{"John Travolta", "Uma Thurman", "Samuel L. Jackson"}},
	{"The Big Lebowski", 1998, 8.1, "Jeff 'The Dude' Lebowski is mistaken for a millionaire and seeks restitution for a ruined rug.", []string{"Comedy", "Crime"}, []string{"Jeff Bridges", "John Goodman", "Julianne Moore"}},
	{"The Shining", 1980, 8.4, "A family heads to an isolated hotel for the winter where a sinister presence influences the father.", []string{"Horror", "Drama"}, []string{"Jack Nicholson", "Shelley Duvall", "Danny Lloyd"}},
	{"Get Out", 2017, 7.7, "A young African-American visits his white girlfriend's parents for the weekend.", []string{"Horror", "Mystery", "Thriller"}, []string{"Daniel Kaluuya", "Allison Williams", "Bradley Whitford"}},
	{"Titanic", 1997, 7.9, "A seventeen-year-old aristocrat falls in love with a kind but poor artist aboard the luxurious, ill-fated R.M.S. Titanic.", []string{"Romance", "Drama"}, []string{"Leonardo DiCaprio", "Kate Winslet", "Billy Zane"}},
	{"The Notebook", 2004, 7.8, "A poor yet passionate young man falls in love with a rich young woman.", []string{"Romance", "Drama"}, []string{"Ryan Gosling", "Rachel McAdams", "James Garner"}},
	{"Spirited Away", 2001, 8.6, "During her family's move to the suburbs, a sullen 10-year-old girl wanders into a world ruled by gods.", []string{"Animation", "Adventure", "Fantasy"}, []string{"Daveigh Chase", "Suzanne Pleshette", "Miyu Irino"}},
	{"WALL-E", 2008, 8.4, "In the distant future, a small waste-collecting robot inadvertently embarks on a space journey.", []string{"Animation", "Adventure", "Sci-Fi"}, []string{"Ben Burtt", "Elissa Knight", "Jeff Garlin"}},
	{"Toy Story", 1995, 8.3, "A cowboy doll is profoundly threatened when a new spaceman figure supplants him as top toy.", []string{"Animation", "Adventure", "Comedy"}, []string{"Tom Hanks", "Tim Allen", "Don Rickles"}},
	{"The Godfather", 1972, 9.2, "The aging patriarch of an organized crime dynasty transfers control to his reluctant son.", []string{"Crime", "Drama"}, []string{"Marlon Brando", "Al Pacino", "James Caan"}},
	{"Goodfellas", 1990, 8.7, "The story of Henry Hill and his life in the mob, covering his relationship with his wife and his partners.", []string{"Crime", "Drama"}, []string{"Robert De Niro", "Ray Liotta", "Joe Pesci"}},
	{"Fight Club", 1999, 8.8, "An insomniac office worker and a devil-may-care soapmaker form an underground fight club.", []string{"Drama"}, []string{"Brad Pitt", "Edward Norton", "Helena Bonham Carter"}},
	{"Gladiator", 2000, 8.5, "A former Roman General sets out to exact vengeance against the corrupt emperor who murdered his family.", []string{"Action", "Adventure", "Drama"}, []string{"Russell Crowe", "Joaquin Phoenix", "Connie Nielsen"}},
	{"Saving Private Ryan", 1998, 8.6, "Following the Normandy Landings, a group of U.S. soldiers go behind enemy lines to retrieve a paratrooper.", []string{"Drama", "War"}, []string{"Tom Hanks", "Matt Damon", "Tom Sizemore"}},
	{"Catch Me If You Can", 2002, 8.1, "A seasoned FBI agent pursues Frank Abagnale Jr., who successfully performed cons worth millions.", []string{"Biography", "Crime", "Drama"}, []string{"Leonardo DiCaprio", "Tom Hanks", "Christopher Walken"}},
	{"The Departed", 2006, 8.5, "An undercover cop and a mole in the police attempt to identify each other while infiltrating an Irish gang.", []string{"Crime", "Drama", "Thriller"}, []string{"Leonardo DiCaprio", "Matt Damon", "Jack Nicholson"}},
}

// Seed populates an empty catalog with the bundled sample films.
// A catalog that already has films is left untouched.
func (s *Store) Seed(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM films").Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count > 0 {
		s.logger.Debug("catalog already seeded", "films", count)
		return 0, nil
	}

	added := 0
	for _, f := range seedFilms {
		if _, err := s.AddFilm(ctx, f.Title, f.Year, f.Rating, f.Description, f.Genres, f.Actors); err != nil {
			return added, fmt.Errorf("seed %q: %w", f.Title, err)
		}
		added++
	}

	s.logger.Info("catalog seeded", "films", added)
	return added, nil
}
