package builder

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metaed/metaed/constants"
	"github.com/metaed/metaed/entity"
	"github.com/metaed/metaed/event"
	"github.com/metaed/metaed/filemap"
	"github.com/metaed/metaed/internal/testutil"
	"github.com/metaed/metaed/validation"
)

func commonExtension(s *testutil.Script) {
	s.Entity(entity.TypeCommonExtension, "EntityName", func(s *testutil.Script) {
		s.Property(entity.PropertyInteger, "PropertyName", func(s *testutil.Script) {
			s.Flag(entity.FieldIsRequired)
		})
	})
}

func TestBuild_CommonExtension(t *testing.T) {
	script := testutil.NewScript().Namespace("namespace", "ProjectExtension", commonExtension)

	res, err := Build(script.Seq())
	require.NoError(t, err)
	assert.Empty(t, res.Failures)
	assert.False(t, res.HasErrors())
	assert.False(t, res.BuildID.IsZero())

	repo := res.Repository
	require.Equal(t, 1, repo.Size("namespace", entity.TypeCommonExtension))
	got, ok := repo.Get("namespace", entity.TypeCommonExtension, "EntityName")
	require.True(t, ok)

	assert.Equal(t, "EntityName", got.MetaEdName)
	assert.Equal(t, "EntityName", got.BaseEntityName)
	assert.Equal(t, "namespace", got.NamespaceName())
	assert.Equal(t, "ProjectExtension", got.Namespace.ProjectExtension)
	assert.True(t, got.Namespace.IsExtension)
	assert.Equal(t, "Common Extension", got.TypeHumanizedName)

	require.Len(t, got.Properties, 1)
	prop := got.Properties[0]
	assert.Equal(t, "PropertyName", prop.MetaEdName)
	assert.Equal(t, entity.PropertyInteger, prop.Type)
	assert.True(t, prop.IsRequired)
	assert.False(t, prop.IsPartOfIdentity)
}

func TestBuild_DuplicateDeclaration(t *testing.T) {
	script := testutil.NewScript().Namespace("namespace", "ProjectExtension", func(s *testutil.Script) {
		commonExtension(s)
		commonExtension(s)
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Repository.Size("namespace", entity.TypeCommonExtension))

	require.Len(t, res.Failures, 2)
	declared := script.EnterLocations(event.EntityRule(entity.TypeCommonExtension))
	require.Len(t, declared, 2)
	for i, f := range res.Failures {
		assert.Equal(t, validation.CategoryError, f.Category)
		assert.Equal(t, constants.TopLevelEntityValidator, f.ValidatorName)
		assert.Equal(t, "Common Extension named EntityName is a duplicate declaration of that name.", f.Message)
		assert.Equal(t, declared[i], f.SourceMap)
	}
	assert.True(t, res.HasErrors())

	// the first declaration is the one retained
	got, ok := res.Repository.Get("namespace", entity.TypeCommonExtension, "EntityName")
	require.True(t, ok)
	assert.Equal(t, declared[0], got.Location())
}

func TestBuild_DuplicateDeclaredThreeTimes(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		for range 3 {
			s.Entity(entity.TypeDomainEntity, "Student", nil)
		}
		s.Entity(entity.TypeDescriptor, "Student", nil)
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	assert.Len(t, res.Failures, 3)
	assert.Equal(t, 1, res.Repository.Size("EdFi", entity.TypeDomainEntity))
	assert.Equal(t, 1, res.Repository.Size("EdFi", entity.TypeDescriptor))
}

func TestBuild_CoreNamespaceDefaults(t *testing.T) {
	script := testutil.NewScript().Namespace("edfi", "", nil)

	res, err := Build(script.Seq())
	require.NoError(t, err)
	assert.Empty(t, res.Failures)

	ns, ok := res.Repository.Namespace("edfi")
	require.True(t, ok)
	assert.Equal(t, "edfi", ns.Name)
	assert.Equal(t, "", ns.ProjectExtension)
	assert.False(t, ns.IsExtension)
	assert.Equal(t, constants.DefaultExtensionEntitySuffix, ns.ExtensionEntitySuffix)
}

func TestBuild_ExtensionEntitySuffix(t *testing.T) {
	script := testutil.NewScript().Namespace("edfi", "", nil)

	res, err := Build(script.Seq(), WithExtensionEntitySuffix("Ext"))
	require.NoError(t, err)
	ns, ok := res.Repository.Namespace("edfi")
	require.True(t, ok)
	assert.Equal(t, "Ext", ns.ExtensionEntitySuffix)
}

func TestBuild_SharedSimpleTypeIdentity(t *testing.T) {
	sharedInteger := func(s *testutil.Script) {
		s.Entity(entity.TypeSharedInteger, "X", func(s *testutil.Script) {
			s.Capture(entity.FieldMinValue, "0")
		})
	}
	script := testutil.NewScript().
		Namespace("EdFi", "", sharedInteger).
		Namespace("Extension", "A", sharedInteger).
		Namespace("Extension", "A", func(s *testutil.Script) {
			s.Entity(entity.TypeSharedInteger, "Y", nil)
		}).
		Namespace("Other", "B", sharedInteger)

	res, err := Build(script.Seq())
	require.NoError(t, err)
	assert.Empty(t, res.Failures)

	repo := res.Repository
	assert.Equal(t, []string{"X"}, repo.Identities("EdFi", entity.TypeSharedInteger))
	assert.Equal(t, []string{"A-X", "A-Y"}, repo.Identities("Extension", entity.TypeSharedInteger))
	assert.Equal(t, []string{"B-X"}, repo.Identities("Other", entity.TypeSharedInteger))

	got, ok := repo.Get("Other", entity.TypeSharedInteger, "B-X")
	require.True(t, ok)
	assert.Equal(t, "X", got.MetaEdName)
	assert.Equal(t, "0", got.Restriction.MinValue)
}

func TestBuild_SharedDecimalCompositeIdentity(t *testing.T) {
	sharedDecimal := func(s *testutil.Script) {
		s.Entity(entity.TypeSharedDecimal, "X", func(s *testutil.Script) {
			s.Capture(entity.FieldTotalDigits, "5")
			s.Capture(entity.FieldDecimalPlaces, "2")
		})
	}
	script := testutil.NewScript().
		Namespace("Extension", "A", sharedDecimal).
		Namespace("Other", "B", sharedDecimal)

	res, err := Build(script.Seq())
	require.NoError(t, err)
	assert.Empty(t, res.Failures)
	assert.Equal(t, []string{"A-X"}, res.Repository.Identities("Extension", entity.TypeSharedDecimal))
	assert.Equal(t, []string{"B-X"}, res.Repository.Identities("Other", entity.TypeSharedDecimal))
}

func TestBuild_PreservesDeclarationOrder(t *testing.T) {
	names := []string{"Zeta", "Alpha", "Mu", "Beta"}
	props := []string{"Third", "First", "Second"}
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		for _, name := range names {
			s.Entity(entity.TypeDomainEntity, name, func(s *testutil.Script) {
				for _, p := range props {
					s.Property(entity.PropertyBoolean, p, nil)
				}
			})
		}
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	assert.Equal(t, names, res.Repository.Identities("EdFi", entity.TypeDomainEntity))

	var got []string
	for e := range res.Repository.All(entity.TypeDomainEntity) {
		got = append(got, e.MetaEdName)
		var gotProps []string
		for _, p := range e.Properties {
			gotProps = append(gotProps, p.MetaEdName)
		}
		assert.Equal(t, props, gotProps)
	}
	assert.Equal(t, names, got)
}

func TestBuild_SourceMapCoversCapturedAttributes(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeDomainEntity, "Student", func(s *testutil.Script) {
			s.Capture(entity.FieldMetaEdID, "42")
			s.Capture(entity.FieldDocumentation, "A person enrolled in a school.")
			s.Flag(entity.FieldIsAbstract)
			s.Property(entity.PropertyString, "FirstName", func(s *testutil.Script) {
				s.Capture(entity.FieldDocumentation, "Given name.")
				s.Flag(entity.FieldIsPartOfIdentity)
				s.Capture(entity.FieldMaxLength, "75")
			})
		})
	})
	events := script.Events()

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Empty(t, res.Failures)

	student, ok := res.Repository.Get("EdFi", entity.TypeDomainEntity, "Student")
	require.True(t, ok)
	assert.Equal(t, "42", student.MetaEdID)
	assert.True(t, student.IsAbstract)

	entityCaptures := events[3:8]
	for _, ev := range entityCaptures {
		if ev.Type != event.TypeCapture {
			continue
		}
		loc, ok := student.SourceMap.Get(ev.Field)
		require.True(t, ok, ev.Field)
		assert.Equal(t, ev.Location, loc, ev.Field)
	}
	typeLoc, ok := student.SourceMap.Get(entity.FieldType)
	require.True(t, ok)
	assert.Equal(t, events[2].Location, typeLoc)

	require.Len(t, student.Properties, 1)
	prop := student.Properties[0]
	assert.True(t, prop.IsPartOfIdentity)
	assert.True(t, prop.IsRequired)
	for _, field := range []entity.Field{
		entity.FieldType,
		entity.FieldMetaEdName,
		entity.FieldDocumentation,
		entity.FieldIsPartOfIdentity,
		entity.FieldMaxLength,
	} {
		loc, ok := prop.SourceMap.Get(field)
		require.True(t, ok, field)
		assert.Positive(t, loc.Line, field)
	}
}

func TestBuild_GeneratedSimpleTypes(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeSharedString, "Name", func(s *testutil.Script) {
			s.Capture(entity.FieldMaxLength, "50")
		})
		s.Entity(entity.TypeDomainEntity, "Student", func(s *testutil.Script) {
			s.Property(entity.PropertyInteger, "Age", func(s *testutil.Script) {
				s.Capture(entity.FieldMinValue, "0")
				s.Capture(entity.FieldMaxValue, "150")
			})
			s.Property(entity.PropertyString, "Name", func(s *testutil.Script) {
				s.Capture(entity.FieldMaxLength, "75")
			})
			s.Property(entity.PropertyDecimal, "Gpa", func(s *testutil.Script) {
				s.Capture(entity.FieldTotalDigits, "3")
				s.Capture(entity.FieldDecimalPlaces, "2")
			})
			s.Property(entity.PropertyBoolean, "IsActive", nil)
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Empty(t, res.Failures)
	repo := res.Repository

	age, ok := repo.Get("EdFi", entity.TypeSharedInteger, "Age")
	require.True(t, ok)
	assert.True(t, age.GeneratedSimpleType)
	assert.Equal(t, "0", age.Restriction.MinValue)
	assert.Equal(t, "150", age.Restriction.MaxValue)
	assert.True(t, age.SourceMap.Has(entity.FieldMetaEdName))
	assert.True(t, age.SourceMap.Has(entity.FieldMaxValue))

	// explicit declaration keeps the slot
	name, ok := repo.Get("EdFi", entity.TypeSharedString, "Name")
	require.True(t, ok)
	assert.False(t, name.GeneratedSimpleType)
	assert.Equal(t, "50", name.Restriction.MaxLength)

	gpa, ok := repo.Get("EdFi", entity.TypeSharedDecimal, "Gpa")
	require.True(t, ok)
	assert.True(t, gpa.GeneratedSimpleType)
	assert.Equal(t, "3", gpa.Restriction.TotalDigits)

	assert.Equal(t, 4, repo.Count())
}

func TestBuild_GeneratedSimpleTypeInExtension(t *testing.T) {
	script := testutil.NewScript().Namespace("Sample", "Sample", func(s *testutil.Script) {
		s.Entity(entity.TypeCommon, "Contact", func(s *testutil.Script) {
			s.Property(entity.PropertyShort, "Priority", nil)
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	got, ok := res.Repository.Get("Sample", entity.TypeSharedShort, "Sample-Priority")
	require.True(t, ok)
	assert.True(t, got.GeneratedSimpleType)
}

func TestBuild_GeneratedSimpleTypeYieldsToLaterDeclaration(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeDomainEntity, "Student", func(s *testutil.Script) {
			s.Property(entity.PropertyDecimal, "Amount", func(s *testutil.Script) {
				s.Capture(entity.FieldTotalDigits, "5")
				s.Capture(entity.FieldDecimalPlaces, "2")
			})
			s.Property(entity.PropertyInteger, "Age", nil)
		})
		s.Entity(entity.TypeSharedDecimal, "Amount", func(s *testutil.Script) {
			s.Capture(entity.FieldTotalDigits, "9")
			s.Capture(entity.FieldDecimalPlaces, "2")
		})
		s.Entity(entity.TypeDomainEntity, "Staff", func(s *testutil.Script) {
			s.Property(entity.PropertyInteger, "Age", func(s *testutil.Script) {
				s.Capture(entity.FieldMaxValue, "99")
			})
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Empty(t, res.Failures)
	repo := res.Repository

	amount, ok := repo.Get("EdFi", entity.TypeSharedDecimal, "Amount")
	require.True(t, ok)
	assert.False(t, amount.GeneratedSimpleType)
	assert.Equal(t, "9", amount.Restriction.TotalDigits)

	// the first inline property claims a free slot
	age, ok := repo.Get("EdFi", entity.TypeSharedInteger, "Age")
	require.True(t, ok)
	assert.True(t, age.GeneratedSimpleType)
	assert.Empty(t, age.Restriction.MaxValue)

	assert.Equal(t, 4, repo.Count())
}

func TestBuild_InvalidEntityName(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeDomainEntity, "student", func(s *testutil.Script) {
			s.Property(entity.PropertyInteger, "Age", nil)
		})
		s.Entity(entity.TypeDomainEntity, "School", func(s *testutil.Script) {
			s.Property(entity.PropertyInteger, "bad name", nil)
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Len(t, res.Failures, 2)

	nameFailure, propFailure := res.Failures[0], res.Failures[1]
	assert.Equal(t, "DomainEntityBuilder", nameFailure.ValidatorName)
	assert.Contains(t, nameFailure.Message, `"student"`)
	assert.Equal(t, "DomainEntityBuilder", propFailure.ValidatorName)
	assert.Contains(t, propFailure.Message, `"bad name"`)

	repo := res.Repository
	assert.Equal(t, []string{"School"}, repo.Identities("EdFi", entity.TypeDomainEntity))
	// a rejected entity generates nothing
	assert.Equal(t, 0, repo.Size("EdFi", entity.TypeSharedInteger))
}

func TestBuild_ExtensionKindInCoreNamespace(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeDomainEntityExtension, "Student", nil)
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "DomainEntityExtensionBuilder", res.Failures[0].ValidatorName)
	assert.Equal(t, 0, res.Repository.Count())
}

func TestBuild_NamespaceRedeclared(t *testing.T) {
	t.Run("same project extension", func(t *testing.T) {
		script := testutil.NewScript().
			Namespace("Sample", "Sample", func(s *testutil.Script) {
				s.Entity(entity.TypeCommon, "A", nil)
			}).
			Namespace("Sample", "Sample", func(s *testutil.Script) {
				s.Entity(entity.TypeCommon, "B", nil)
			})

		res, err := Build(script.Seq())
		require.NoError(t, err)
		assert.Empty(t, res.Failures)
		assert.Equal(t, []string{"A", "B"}, res.Repository.Identities("Sample", entity.TypeCommon))
	})

	t.Run("conflicting project extension", func(t *testing.T) {
		script := testutil.NewScript().
			Namespace("Sample", "Sample", nil).
			Namespace("Sample", "Other", nil)

		res, err := Build(script.Seq())
		require.NoError(t, err)
		require.Len(t, res.Failures, 1)
		assert.Equal(t, constants.NamespaceValidator, res.Failures[0].ValidatorName)

		ns, ok := res.Repository.Namespace("Sample")
		require.True(t, ok)
		assert.Equal(t, "Sample", ns.ProjectExtension)
	})
}

func TestBuild_RestrictionChecks(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeSharedDecimal, "Amount", func(s *testutil.Script) {
			s.Capture(entity.FieldTotalDigits, "4")
			s.Capture(entity.FieldMinValue, "10.5")
			s.Capture(entity.FieldMaxValue, "2")
		})
		s.Entity(entity.TypeSharedShort, "Small", func(s *testutil.Script) {
			s.Capture(entity.FieldMaxValue, "40000")
		})
		s.Entity(entity.TypeSharedString, "Code", func(s *testutil.Script) {
			s.Capture(entity.FieldMinLength, "x")
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)

	var validators []string
	for _, f := range res.Failures {
		validators = append(validators, f.ValidatorName)
	}
	assert.Equal(t, []string{
		"SharedDecimalBuilder",
		"SharedDecimalBuilder",
		"SharedShortBuilder",
		"SharedStringBuilder",
	}, validators)
	assert.Contains(t, res.Failures[0].Message, "decimalPlaces")
	assert.Contains(t, res.Failures[1].Message, "min value 10.5 greater than max value 2")

	// attribute problems do not prevent the commit
	assert.Equal(t, 3, res.Repository.Count())
}

func TestBuild_DecimalBounds(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeSharedDecimal, "Scientific", func(s *testutil.Script) {
			s.Capture(entity.FieldTotalDigits, "5")
			s.Capture(entity.FieldDecimalPlaces, "0")
			s.Capture(entity.FieldMinValue, "1e2")
			s.Capture(entity.FieldMaxValue, "100.0")
		})
		s.Entity(entity.TypeSharedDecimal, "Fraction", func(s *testutil.Script) {
			s.Capture(entity.FieldTotalDigits, "5")
			s.Capture(entity.FieldDecimalPlaces, "2")
			s.Capture(entity.FieldMinValue, "1/2")
			s.Capture(entity.FieldMaxValue, "-0.001")
		})
		s.Entity(entity.TypeSharedDecimal, "Inverted", func(s *testutil.Script) {
			s.Capture(entity.FieldTotalDigits, "5")
			s.Capture(entity.FieldDecimalPlaces, "2")
			s.Capture(entity.FieldMinValue, "-0.001")
			s.Capture(entity.FieldMaxValue, "-0.01")
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, `Shared Decimal Fraction has minValue "1/2", which is not a valid decimal value.`, res.Failures[0].Message)
	assert.Equal(t, "Shared Decimal Inverted has min value -0.001 greater than max value -0.01.", res.Failures[1].Message)
	assert.Equal(t, 3, res.Repository.Count())
}

func TestBuild_InlineRestrictionReportedByOwner(t *testing.T) {
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeDomainEntity, "Student", func(s *testutil.Script) {
			s.Property(entity.PropertyInteger, "Age", func(s *testutil.Script) {
				s.Capture(entity.FieldMinValue, "10")
				s.Capture(entity.FieldMaxValue, "1")
			})
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "DomainEntityBuilder", res.Failures[0].ValidatorName)
	assert.Equal(t, "integer property Age of Domain Entity Student has min value 10 greater than max value 1.", res.Failures[0].Message)

	_, ok := res.Repository.Get("EdFi", entity.TypeDomainEntity, "Student")
	assert.True(t, ok)
	age, ok := res.Repository.Get("EdFi", entity.TypeSharedInteger, "Age")
	require.True(t, ok)
	assert.True(t, age.GeneratedSimpleType)
}

func TestBuild_FileIndex(t *testing.T) {
	script := testutil.NewScript().Namespace("namespace", "ProjectExtension", func(s *testutil.Script) {
		commonExtension(s)
		commonExtension(s)
	})
	index := filemap.NewIndex(
		filemap.File{Name: "a.metaed", LineCount: 3},
		filemap.File{Name: "b.metaed", LineCount: 10},
	)

	res, err := Build(script.Seq(), WithFileIndex(index))
	require.NoError(t, err)
	require.Len(t, res.Failures, 2)

	require.NotNil(t, res.Failures[0].File)
	assert.Equal(t, validation.FilePosition{File: "a.metaed", Line: 2, Column: 4}, *res.Failures[0].File)
	require.NotNil(t, res.Failures[1].File)
	assert.Equal(t, validation.FilePosition{File: "b.metaed", Line: 2, Column: 4}, *res.Failures[1].File)
}

func TestBuild_StructuralErrors(t *testing.T) {
	loc := entity.Location{Line: 1, Column: 0}
	tests := []struct {
		name   string
		events []event.Event
	}{
		{
			name:   "entity outside namespace",
			events: testutil.NewScript().Entity(entity.TypeDomainEntity, "Student", nil).Events(),
		},
		{
			name: "mismatched exit",
			events: []event.Event{
				event.Enter(event.RuleNamespace, loc),
				event.CaptureValue(entity.FieldNamespaceName, "EdFi", loc),
				event.Enter(event.EntityRule(entity.TypeCommon), loc),
				event.Exit(event.RuleNamespace),
			},
		},
		{
			name:   "exit without enter",
			events: []event.Event{event.Exit(event.EntityRule(entity.TypeCommon))},
		},
		{
			name: "unaccepted capture",
			events: testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
				s.Entity(entity.TypeSharedString, "Code", func(s *testutil.Script) {
					s.Capture(entity.FieldTotalDigits, "4")
				})
			}).Events(),
		},
		{
			name: "property in simple type",
			events: testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
				s.Entity(entity.TypeSharedString, "Code", func(s *testutil.Script) {
					s.Property(entity.PropertyString, "Value", nil)
				})
			}).Events(),
		},
		{
			name: "nested entity",
			events: testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
				s.Entity(entity.TypeCommon, "Outer", func(s *testutil.Script) {
					s.Entity(entity.TypeCommon, "Inner", nil)
				})
			}).Events(),
		},
		{
			name: "namespace without name",
			events: []event.Event{
				event.Enter(event.RuleNamespace, loc),
				event.Exit(event.RuleNamespace),
			},
		},
		{
			name:   "invalid namespace name",
			events: testutil.NewScript().Namespace("Ed-Fi", "", nil).Events(),
		},
		{
			name: "stream ends with rule open",
			events: []event.Event{
				event.Enter(event.RuleNamespace, loc),
				event.CaptureValue(entity.FieldNamespaceName, "EdFi", loc),
				event.Enter(event.EntityRule(entity.TypeCommon), loc),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Build(slices.Values(tt.events))
			require.Error(t, err)
			assert.True(t, IsStructural(err))
			assert.Nil(t, res)
		})
	}
}

func TestListener_StructuralErrorIsSticky(t *testing.T) {
	b := New()
	l := NewListener(b)

	err := l.Handle(event.Exit(event.RuleNamespace))
	require.Error(t, err)
	require.True(t, IsStructural(err))

	valid := testutil.NewScript().Namespace("EdFi", "", nil).Events()
	for _, ev := range valid {
		assert.Equal(t, err, l.Handle(ev))
	}
	_, finishErr := l.Finish()
	assert.Equal(t, err, finishErr)
	assert.Equal(t, err, b.Err())
}

func TestListener_IgnoresUnknownRules(t *testing.T) {
	loc := entity.Location{Line: 1}
	script := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Raw(event.Enter("comment", loc), event.Exit("comment"))
		s.Entity(entity.TypeDomainEntity, "Student", func(s *testutil.Script) {
			s.Raw(event.Enter("propertyList", loc))
			s.Property(entity.PropertyBoolean, "IsActive", nil)
			s.Raw(event.Exit("propertyList"))
		})
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	got, ok := res.Repository.Get("EdFi", entity.TypeDomainEntity, "Student")
	require.True(t, ok)
	assert.Len(t, got.Properties, 1)
}

func TestBuilder_DirectCalls(t *testing.T) {
	loc := func(line int, text string) entity.Location {
		return entity.Location{Line: line, Text: text}
	}
	name := testutil.RandEntityName()

	b := New()
	require.NoError(t, b.EnterNamespace(entity.Token{Value: "EdFi", Location: loc(1, "EdFi")}, entity.Token{}))
	require.NoError(t, b.EnterEntity(entity.TypeAssociation, loc(2, "Association")))
	require.NoError(t, b.Capture(entity.FieldMetaEdName, entity.Token{Value: name, Location: loc(2, name)}))
	require.NoError(t, b.EnterProperty(entity.PropertyDomainEntity, loc(3, "domain entity")))
	require.NoError(t, b.Capture(entity.FieldMetaEdName, entity.Token{Value: "School", Location: loc(3, "School")}))
	require.NoError(t, b.Capture(entity.FieldRoleName, entity.Token{Value: "Home", Location: loc(3, "Home")}))
	require.NoError(t, b.ExitProperty())
	require.NoError(t, b.ExitEntity())
	require.NoError(t, b.ExitNamespace())

	res, err := b.Finish()
	require.NoError(t, err)
	assert.Equal(t, b.BuildID(), res.BuildID)
	assert.Same(t, b.Repository(), res.Repository)

	got, ok := res.Repository.Get("EdFi", entity.TypeAssociation, name)
	require.True(t, ok)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, "Home", got.Properties[0].RoleName)
	// references generate no simple type
	assert.Equal(t, 1, res.Repository.Count())
}

func TestBuild_SharedRepository(t *testing.T) {
	repo := entity.NewRepository()
	first := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeDomainEntity, "Student", nil)
	})
	second := testutil.NewScript().Namespace("EdFi", "", func(s *testutil.Script) {
		s.Entity(entity.TypeDomainEntity, "Student", nil)
	})

	_, err := Build(first.Seq(), WithRepository(repo))
	require.NoError(t, err)
	res, err := Build(second.Seq(), WithRepository(repo))
	require.NoError(t, err)
	assert.Len(t, res.Failures, 2)
	assert.Equal(t, 1, repo.Count())
}

func TestBuild_DuplicateCompositeIdentity(t *testing.T) {
	script := testutil.NewScript().Namespace("Extension", "A", func(s *testutil.Script) {
		s.Entity(entity.TypeSharedInteger, "X", nil)
		s.Entity(entity.TypeSharedInteger, "X", nil)
	})

	res, err := Build(script.Seq())
	require.NoError(t, err)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "Shared Integer named X (identity A-X) is a duplicate declaration of that name.", res.Failures[1].Message)
	assert.Equal(t, []string{"A-X"}, res.Repository.Identities("Extension", entity.TypeSharedInteger))
}
