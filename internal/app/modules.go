package app

import (
	"github.com/vk/modregistry/internal/registry"
	"github.com/vk/modregistry/modules/env_vars"
	"github.com/vk/modregistry/modules/http_client"
	"github.com/vk/modregistry/modules/print"
	"github.com/vk/modregistry/modules/s3"
	"github.com/vk/modregistry/modules/socketio_client"
)

// coreModules is the definitive list of all modules compiled into the
// modregistry binary. This is the explicit composition root: the app
// registers each entry before any lookup runs, so nothing depends on
// import side effects.
var coreModules = []registry.Module{
	&env_vars.Module{},
	&print.Module{},
	&http_client.Module{},
	&s3.Module{},
	&socketio_client.Module{},
}
