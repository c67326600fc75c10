package stubserver

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eventxplore/internal/models"
	"eventxplore/internal/stubserver/storage/sqlite"
)

// Seed loads demo accounts and events into an empty database so the stub
// is browsable right after first start. Every seeded account uses the
// password "demo1234". Does nothing when events already exist.
func Seed(storage *sqlite.Storage) error {
	const op = "stubserver.Seed"

	n, err := storage.CountEvents()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("%s: hash demo password: %w", op, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)

	attendee := models.User{
		ID:        uuid.NewString(),
		Name:      "Demo Attendee",
		Email:     "demo@eventxplore.local",
		City:      "São Paulo",
		Role:      models.RoleUser,
		CreatedAt: now,
	}
	if err := storage.CreateUser(attendee, string(hash)); err != nil {
		return fmt.Errorf("%s: seed attendee: %w", op, err)
	}

	organizers := []models.User{
		{ID: uuid.NewString(), Name: "Tech Events BR", Email: "tech@eventxplore.local"},
		{ID: uuid.NewString(), Name: "Design Lab", Email: "design@eventxplore.local"},
		{ID: uuid.NewString(), Name: "BH Business", Email: "business@eventxplore.local"},
		{ID: uuid.NewString(), Name: "Indie Fest", Email: "indie@eventxplore.local"},
		{ID: uuid.NewString(), Name: "Code Masters", Email: "code@eventxplore.local"},
		{ID: uuid.NewString(), Name: "Arte BA", Email: "arte@eventxplore.local"},
	}

	for i := range organizers {
		organizers[i].Role = models.RoleOrganizer
		organizers[i].CreatedAt = now

		if err := storage.CreateUser(organizers[i], string(hash)); err != nil {
			return fmt.Errorf("%s: seed organizer: %w", op, err)
		}
	}

	// dates relative to now so the demo events stay upcoming
	day := func(offset int) string {
		return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
	}

	events := []models.Event{
		{
			Title:            "Tech Summit Brasil",
			Description:      "O maior evento de tecnologia do Brasil reunindo os melhores profissionais do mercado.",
			ShortDescription: "O maior evento de tecnologia do Brasil",
			Category:         "Tecnologia",
			Date:             day(30), Time: "09:00",
			Location: "Centro de Convenções", City: "São Paulo", State: "SP",
			Capacity: 500, RegisteredCount: 342, Price: 150,
			Tags: []string{"tecnologia", "inovação", "networking"},
		},
		{
			Title:            "Workshop de UX Design",
			Description:      "Aprenda as melhores práticas de UX Design com profissionais experientes.",
			ShortDescription: "Aprenda UX Design na prática",
			Category:         "Tecnologia",
			Date:             day(35), Time: "14:00",
			Location: "Hub de Inovação", City: "Rio de Janeiro", State: "RJ",
			Capacity: 50, RegisteredCount: 48, IsFree: true,
		},
		{
			Title:            "Networking Empresarial",
			Description:      "Conecte-se com outros empreendedores e expanda sua rede de contatos.",
			ShortDescription: "Expanda sua rede de contatos",
			Category:         "Networking",
			Date:             day(40), Time: "19:00",
			Location: "Rooftop Business Center", City: "Belo Horizonte", State: "MG",
			Capacity: 100, RegisteredCount: 67, Price: 50,
		},
		{
			Title:            "Festival de Música Indie",
			Description:      "Três dias de música alternativa com bandas nacionais e internacionais.",
			ShortDescription: "Música alternativa ao vivo",
			Category:         "Música",
			Date:             day(50), Time: "16:00",
			Location: "Parque da Cidade", City: "Porto Alegre", State: "RS",
			Capacity: 2000, RegisteredCount: 1456, Price: 200,
		},
		{
			Title:            "Maratona de Programação",
			Description:      "Competição de programação com premiações para os melhores times.",
			ShortDescription: "24h de código e desafios",
			Category:         "Tecnologia",
			Date:             day(58), Time: "08:00",
			Location: "Campus Universitário", City: "Curitiba", State: "PR",
			Capacity: 200, RegisteredCount: 180, IsFree: true,
		},
		{
			Title:            "Exposição de Arte Moderna",
			Description:      "Obras de artistas contemporâneos brasileiros em uma experiência imersiva.",
			ShortDescription: "Arte contemporânea brasileira",
			Category:         "Arte",
			Date:             day(64), Time: "10:00",
			Location: "Museu de Arte Moderna", City: "Salvador", State: "BA",
			Capacity: 300, RegisteredCount: 123, Price: 30,
		},
	}

	for i, e := range events {
		org := organizers[i%len(organizers)]

		e.ID = uuid.NewString()
		e.Status = models.EventPublished
		e.RegistrationsOpen = true
		e.OrganizerID = org.ID
		e.OrganizerName = org.Name
		e.CreatedAt = now
		e.UpdatedAt = now

		if err := storage.SaveEvent(e); err != nil {
			return fmt.Errorf("%s: seed event: %w", op, err)
		}
	}

	return nil
}
