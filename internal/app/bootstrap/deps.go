// internal/app/bootstrap/deps.go
package bootstrap

import (
	"github.com/educonnect/contenido/internal/app/store/generic"
	"github.com/educonnect/contenido/internal/app/system/directory"
	"github.com/educonnect/contenido/internal/app/system/inputval"
	"github.com/educonnect/contenido/internal/blobstore"
	"go.mongodb.org/mongo-driver/mongo"
)

// Deps holds the connected backends the handlers are built from. Created in
// Run after the infrastructure is up, passed through the lifecycle, and
// closed in Shutdown.
type Deps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Blobs stores the uploaded file bytes.
	Blobs blobstore.Store

	// Directorio resolves user ids against the directory microservice.
	// Nil when directory_base_url is not configured.
	Directorio *directory.Client

	// Ext is the upload extension allow-list.
	Ext *inputval.Extensions

	// Registry holds the schemas served by the generic record endpoints.
	Registry *generic.Registry
}
