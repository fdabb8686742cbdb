package routes

import (
	"flag"

	"github.com/murabei/pumpwood-kong/internal/kong"
)

// serviceFlags selects the service a route is bound to.
type serviceFlags struct {
	id   string
	name string
}

func (f *serviceFlags) register(flags *flag.FlagSet) {
	flags.StringVar(&f.id, "service-id", "", "Id of the service the route is bound to. Exclusive with -service-name.")
	flags.StringVar(&f.name, "service-name", "", "Name of the service the route is bound to. Exclusive with -service-id.")
}

func (f *serviceFlags) ref() (kong.ServiceRef, error) {
	return kong.ParseServiceRef(f.id, f.name)
}
