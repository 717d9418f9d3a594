package types

type Instance struct {
	// The Amazon Resource Name (ARN)
	DBInstanceArn *string

	// The user-supplied database identifier, unique to an Amazon Web Services
	// Region for the account.
	DBInstanceIdentifier *string

	// The name of the compute and memory capacity class of the DB instance.
	DBInstanceClass *string

	// The amount of storage in gibibytes (GiB) allocated for the DB instance.
	AllocatedStorage *int32

	// The name of the database engine to be used for this DB instance.
	Engine *string

	// The version of the database engine.
	EngineVersion *string

	// The DNS address of the DB instance. It is nil while the instance is
	// still being created.
	EndpointAddress *string

	Tags Tags
}

type Tags map[string]string
