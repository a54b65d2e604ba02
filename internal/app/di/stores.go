package di

import (
	"gorm.io/gorm"

	authadapters "library_backend/internal/feature/auth/adapters"
	authentity "library_backend/internal/feature/auth/domain/entity"
	authhandler "library_backend/internal/feature/auth/transport/handler"
	authusecase "library_backend/internal/feature/auth/usecase"
	libraryadapters "library_backend/internal/feature/library/adapters"
	libraryhandler "library_backend/internal/feature/library/transport/handler"
	libraryusecase "library_backend/internal/feature/library/usecase"
	"library_backend/internal/platform/config"
	jwtmw "library_backend/internal/platform/jwt"
)

// Models lists the GORM models migrated at startup.
func Models() []any {
	return []any{&authentity.User{}, &libraryadapters.EntryModel{}}
}

// NewAuthHandler wires the identity store, token generator and auth usecase.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *authhandler.AuthHandler {
	users := authadapters.NewUserRepository(db)
	tokens := jwtmw.NewGenerator(cfg.JWTSecret, cfg.JWTExpiration)
	return authhandler.NewAuthHandler(authusecase.NewAuthUsecase(users, tokens))
}

// NewLibraryHandler wires the library store and service.
func NewLibraryHandler(db *gorm.DB) *libraryhandler.LibraryHandler {
	entries := libraryadapters.NewEntryRepository(db)
	return libraryhandler.NewLibraryHandler(libraryusecase.NewLibraryUsecase(entries))
}
