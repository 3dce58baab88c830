package transfer

import (
	"context"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/hauskeep/hauskeep/pkg/cloud"
	"github.com/hauskeep/hauskeep/pkg/household"
	"github.com/hauskeep/hauskeep/pkg/models"
)

// categories declares every transferable category. Declaration order is the
// tie-break for the topological sort, so the effective run order is stable;
// the dependsOn edges are what actually matters for correctness, because a
// category can only remap foreign keys into categories that already ran.
func categories() []categoryDescriptor {
	return []categoryDescriptor{
		locationsCategory(),
		quantityUnitsCategory(),
		productGroupsCategory(),
		contactsCategory(),
		productsCategory(),
		equipmentCategory(),
		vehiclesCategory(),
		recipesCategory(),
		choresCategory(),
		choreLogsCategory(),
		todoItemsCategory(),
		shoppingListCategory(),
		storageBinsCategory(),
		homeProfileCategory(),
		calendarEventsCategory(),
		stockCategory(),
	}
}

// orderedCategories topologically sorts the declared categories by their
// dependsOn edges, preserving declaration order among independent
// categories. A cycle or an edge to an undeclared category is a programming
// error.
func orderedCategories(descs []categoryDescriptor) ([]categoryDescriptor, error) {
	index := make(map[string]int, len(descs))
	for i, desc := range descs {
		index[desc.name] = i
	}

	indegree := make([]int, len(descs))
	for _, desc := range descs {
		for _, dep := range desc.dependsOn {
			if _, ok := index[dep]; !ok {
				return nil, errors.Errorf("category %s depends on unknown category %s", desc.name, dep)
			}
			indegree[index[desc.name]]++
		}
	}

	ordered := make([]categoryDescriptor, 0, len(descs))
	placed := make([]bool, len(descs))

	for len(ordered) < len(descs) {
		next := -1
		for i := range descs {
			if placed[i] || indegree[i] > 0 {
				continue
			}
			next = i
			break
		}
		if next == -1 {
			return nil, errors.New("category dependency cycle")
		}

		placed[next] = true
		ordered = append(ordered, descs[next])
		for i, desc := range descs {
			if placed[i] {
				continue
			}
			for _, dep := range desc.dependsOn {
				if dep == descs[next].name {
					indegree[i]--
				}
			}
		}
	}

	return ordered, nil
}

// activeCategories is the ordered run list for a session; history-only
// categories are filtered out unless the session opted in.
func activeCategories(includeHistory bool) ([]categoryDescriptor, error) {
	ordered, err := orderedCategories(categories())
	if err != nil {
		return nil, err
	}
	if includeHistory {
		return ordered, nil
	}

	active := make([]categoryDescriptor, 0, len(ordered))
	for _, desc := range ordered {
		if desc.historyOnly {
			continue
		}
		active = append(active, desc)
	}
	return active, nil
}

func locationsCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryLocations,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			locations, err := env.household.ListLocations(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(locations))
			for _, location := range locations {
				items = append(items, transferItem{
					sourceID: location.ID,
					name:     location.Name,
					dupeKey:  dupeKey(location.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateLocationRequest, cloud.CreatedResponse](ctx, env.client, "locations", cloud.CreateLocationRequest{
							Name:        location.Name,
							Description: location.Description,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteLocation](ctx, env.client, "locations")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

func quantityUnitsCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryQuantityUnits,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			units, err := env.household.ListQuantityUnits(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(units))
			for _, unit := range units {
				items = append(items, transferItem{
					sourceID: unit.ID,
					name:     unit.Name,
					dupeKey:  dupeKey(unit.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateQuantityUnitRequest, cloud.CreatedResponse](ctx, env.client, "quantity-units", cloud.CreateQuantityUnitRequest{
							Name:        unit.Name,
							NamePlural:  unit.NamePlural,
							Description: unit.Description,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteQuantityUnit](ctx, env.client, "quantity-units")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

func productGroupsCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryProductGroups,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			groups, err := env.household.ListProductGroups(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(groups))
			for _, group := range groups {
				items = append(items, transferItem{
					sourceID: group.ID,
					name:     group.Name,
					dupeKey:  dupeKey(group.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateProductGroupRequest, cloud.CreatedResponse](ctx, env.client, "product-groups", cloud.CreateProductGroupRequest{
							Name:        group.Name,
							Description: group.Description,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteProductGroup](ctx, env.client, "product-groups")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

func contactsCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryContacts,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			contacts, err := env.household.ListContacts(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(contacts))
			for _, contact := range contacts {
				items = append(items, transferItem{
					sourceID: contact.ID,
					name:     contact.DisplayName(),
					dupeKey:  dupeKey(contact.DisplayName()),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateContactRequest, cloud.CreatedResponse](ctx, env.client, "contacts", cloud.CreateContactRequest{
							FirstName: contact.FirstName,
							LastName:  contact.LastName,
							Company:   contact.Company,
							Notes:     contact.Notes,
						})
						return resp.ID, err
					},
					cascade: func(ctx context.Context, remoteID string) []cascadeFailure {
						failures := []cascadeFailure{}
						for _, address := range contact.Addresses {
							_, err := cloud.Post[cloud.CreateContactAddressRequest, cloud.CreatedResponse](ctx, env.client, "contacts/"+remoteID+"/addresses", cloud.CreateContactAddressRequest{
								Label:   address.Label,
								Street:  address.Street,
								City:    address.City,
								ZipCode: address.ZipCode,
								Country: address.Country,
							})
							if err != nil {
								failures = append(failures, cascadeFailure{
									category: household.CategoryContacts + "/addresses",
									sourceID: address.ID,
									name:     address.Label,
									err:      err,
								})
							}
						}
						for _, phone := range contact.Phones {
							_, err := cloud.Post[cloud.CreateContactPhoneRequest, cloud.CreatedResponse](ctx, env.client, "contacts/"+remoteID+"/phones", cloud.CreateContactPhoneRequest{
								Label:  phone.Label,
								Number: phone.Number,
							})
							if err != nil {
								failures = append(failures, cascadeFailure{
									category: household.CategoryContacts + "/phones",
									sourceID: phone.ID,
									name:     phone.Number,
									err:      err,
								})
							}
						}
						for _, email := range contact.Emails {
							_, err := cloud.Post[cloud.CreateContactEmailRequest, cloud.CreatedResponse](ctx, env.client, "contacts/"+remoteID+"/emails", cloud.CreateContactEmailRequest{
								Label:   email.Label,
								Address: email.Address,
							})
							if err != nil {
								failures = append(failures, cascadeFailure{
									category: household.CategoryContacts + "/emails",
									sourceID: email.ID,
									name:     email.Address,
									err:      err,
								})
							}
						}
						return failures
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteContact](ctx, env.client, "contacts")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				name := r.FirstName
				if r.LastName != nil && *r.LastName != "" {
					name += " " + *r.LastName
				}
				existing[dupeKey(name)] = r.ID
			}
			return existing, nil
		},
	}
}

func productsCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryProducts,
		dependsOn: []string{
			household.CategoryLocations,
			household.CategoryQuantityUnits,
			household.CategoryProductGroups,
		},
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			products, err := env.household.ListProducts(ctx)
			if err != nil {
				return nil, err
			}
			locationIDs, err := env.depMap(ctx, household.CategoryLocations)
			if err != nil {
				return nil, err
			}
			unitIDs, err := env.depMap(ctx, household.CategoryQuantityUnits)
			if err != nil {
				return nil, err
			}
			groupIDs, err := env.depMap(ctx, household.CategoryProductGroups)
			if err != nil {
				return nil, err
			}

			items := make([]transferItem, 0, len(products))
			for _, product := range products {
				items = append(items, transferItem{
					sourceID: product.ID,
					name:     product.Name,
					dupeKey:  dupeKey(product.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateProductRequest, cloud.CreatedResponse](ctx, env.client, "products", cloud.CreateProductRequest{
							Name:           product.Name,
							Description:    product.Description,
							LocationID:     remapID(locationIDs, product.LocationID),
							QuantityUnitID: remapID(unitIDs, product.QuantityUnitID),
							ProductGroupID: remapID(groupIDs, product.ProductGroupID),
							MinStockAmount: product.MinStockAmount,
						})
						return resp.ID, err
					},
					cascade: func(ctx context.Context, remoteID string) []cascadeFailure {
						failures := []cascadeFailure{}
						for _, barcode := range product.Barcodes {
							_, err := cloud.Post[cloud.CreateProductBarcodeRequest, cloud.CreatedResponse](ctx, env.client, "products/"+remoteID+"/barcodes", cloud.CreateProductBarcodeRequest{
								Barcode: barcode.Barcode,
								Note:    barcode.Note,
							})
							if err != nil {
								failures = append(failures, cascadeFailure{
									category: household.CategoryProducts + "/barcodes",
									sourceID: barcode.ID,
									name:     barcode.Barcode,
									err:      err,
								})
							}
						}
						return failures
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteProduct](ctx, env.client, "products")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

func equipmentCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryEquipment,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			equipment, err := env.household.ListEquipment(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(equipment))
			for _, e := range equipment {
				items = append(items, transferItem{
					sourceID: e.ID,
					name:     e.Name,
					dupeKey:  dupeKey(e.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateEquipmentRequest, cloud.CreatedResponse](ctx, env.client, "equipment", cloud.CreateEquipmentRequest{
							Name:         e.Name,
							Description:  e.Description,
							PurchasedAt:  e.PurchasedAt,
							WarrantyInfo: e.WarrantyInfo,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteEquipment](ctx, env.client, "equipment")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

func vehiclesCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryVehicles,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			vehicles, err := env.household.ListVehicles(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(vehicles))
			for _, vehicle := range vehicles {
				items = append(items, transferItem{
					sourceID: vehicle.ID,
					name:     vehicle.Name,
					dupeKey:  vehicleDupeKey(vehicle.Name, vehicle.LicensePlate),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateVehicleRequest, cloud.CreatedResponse](ctx, env.client, "vehicles", cloud.CreateVehicleRequest{
							Name:         vehicle.Name,
							LicensePlate: vehicle.LicensePlate,
							Make:         vehicle.Make,
							Model:        vehicle.Model,
						})
						return resp.ID, err
					},
					cascade: func(ctx context.Context, remoteID string) []cascadeFailure {
						failures := []cascadeFailure{}
						for _, service := range vehicle.Services {
							_, err := cloud.Post[cloud.CreateVehicleServiceRequest, cloud.CreatedResponse](ctx, env.client, "vehicles/"+remoteID+"/services", cloud.CreateVehicleServiceRequest{
								Name:         service.Name,
								IntervalDays: service.IntervalDays,
								LastDoneAt:   service.LastDoneAt,
							})
							if err != nil {
								failures = append(failures, cascadeFailure{
									category: household.CategoryVehicles + "/services",
									sourceID: service.ID,
									name:     service.Name,
									err:      err,
								})
							}
						}
						return failures
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteVehicle](ctx, env.client, "vehicles")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[vehicleDupeKey(r.Name, r.LicensePlate)] = r.ID
			}
			return existing, nil
		},
	}
}

func recipesCategory() categoryDescriptor {
	return categoryDescriptor{
		name:      household.CategoryRecipes,
		dependsOn: []string{household.CategoryProducts},
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			recipes, err := env.household.ListRecipes(ctx)
			if err != nil {
				return nil, err
			}
			productIDs, err := env.depMap(ctx, household.CategoryProducts)
			if err != nil {
				return nil, err
			}

			items := make([]transferItem, 0, len(recipes))
			for _, recipe := range recipes {
				items = append(items, transferItem{
					sourceID: recipe.ID,
					name:     recipe.Name,
					dupeKey:  dupeKey(recipe.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateRecipeRequest, cloud.CreatedResponse](ctx, env.client, "recipes", cloud.CreateRecipeRequest{
							Name:        recipe.Name,
							Description: recipe.Description,
							Servings:    recipe.Servings,
						})
						return resp.ID, err
					},
					cascade: func(ctx context.Context, remoteID string) []cascadeFailure {
						failures := []cascadeFailure{}
						for _, step := range recipe.Steps {
							_, err := cloud.Post[cloud.CreateRecipeStepRequest, cloud.CreatedResponse](ctx, env.client, "recipes/"+remoteID+"/steps", cloud.CreateRecipeStepRequest{
								SortOrder:   step.SortOrder,
								Instruction: step.Instruction,
							})
							if err != nil {
								failures = append(failures, cascadeFailure{
									category: household.CategoryRecipes + "/steps",
									sourceID: step.ID,
									name:     "step " + strconv.Itoa(step.SortOrder),
									err:      err,
								})
							}
						}
						for _, ingredient := range recipe.Ingredients {
							name := "ingredient"
							if ingredient.Product != nil {
								name = ingredient.Product.Name
							}
							_, err := cloud.Post[cloud.CreateRecipeIngredientRequest, cloud.CreatedResponse](ctx, env.client, "recipes/"+remoteID+"/ingredients", cloud.CreateRecipeIngredientRequest{
								ProductID: remapRequiredID(productIDs, ingredient.ProductID),
								Amount:    ingredient.Amount,
								Note:      ingredient.Note,
							})
							if err != nil {
								failures = append(failures, cascadeFailure{
									category: household.CategoryRecipes + "/ingredients",
									sourceID: ingredient.ID,
									name:     name,
									err:      err,
								})
							}
						}
						return failures
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteRecipe](ctx, env.client, "recipes")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

func choresCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryChores,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			chores, err := env.household.ListChores(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(chores))
			for _, chore := range chores {
				items = append(items, transferItem{
					sourceID: chore.ID,
					name:     chore.Name,
					dupeKey:  dupeKey(chore.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateChoreRequest, cloud.CreatedResponse](ctx, env.client, "chores", cloud.CreateChoreRequest{
							Name:        chore.Name,
							Description: chore.Description,
							PeriodType:  chore.PeriodType,
							PeriodDays:  chore.PeriodDays,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteChore](ctx, env.client, "chores")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

// choreLogsCategory batches every eligible log row into a single remote
// call. The batch succeeds or fails as a unit and every row is logged with
// that one outcome; per-row granularity is traded away because chore logs
// can be a very large table.
func choreLogsCategory() categoryDescriptor {
	return categoryDescriptor{
		name:        household.CategoryChoreLogs,
		dependsOn:   []string{household.CategoryChores},
		historyOnly: true,
		run: func(ctx context.Context, env *runEnv) error {
			logs, err := env.household.ListChoreLogs(ctx)
			if err != nil {
				return err
			}
			choreIDs, err := env.depMap(ctx, household.CategoryChores)
			if err != nil {
				return err
			}
			prior, err := env.ledger.CategoryLogs(ctx, env.session.ID, household.CategoryChoreLogs)
			if err != nil {
				return err
			}

			env.tracker.StartCategory(household.CategoryChoreLogs, len(logs))

			logged := make(map[int]struct{}, len(prior))
			for _, row := range prior {
				logged[row.SourceID] = struct{}{}
				env.tracker.ItemDone(row.Name, row.Status)
			}

			pending := make([]*models.ChoreLog, 0, len(logs))
			batch := cloud.CreateChoreLogBatchRequest{Logs: []cloud.CreateChoreLogRequest{}}
			for _, log := range logs {
				if _, ok := logged[log.ID]; ok {
					continue
				}
				pending = append(pending, log)
				batch.Logs = append(batch.Logs, cloud.CreateChoreLogRequest{
					ChoreID: remapRequiredID(choreIDs, log.ChoreID),
					DoneAt:  log.DoneAt,
					DoneBy:  log.DoneBy,
				})
			}
			if len(pending) == 0 {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}

			status := models.TransferItemCreated
			var errorMessage *string
			_, batchErr := cloud.Post[cloud.CreateChoreLogBatchRequest, cloud.CreateChoreLogBatchResponse](ctx, env.client, "chore-logs/batch", batch)
			if batchErr != nil {
				if ctx.Err() != nil {
					return errors.WithStack(ctx.Err())
				}
				status = models.TransferItemFailed
				msg := remoteMessage(batchErr)
				errorMessage = &msg
			}

			for _, log := range pending {
				name := "chore log"
				if log.Chore != nil {
					name = log.Chore.Name
				}
				err := env.ledger.AppendItemLog(ctx, &models.TransferItemLog{
					SessionID:    env.session.ID,
					Category:     household.CategoryChoreLogs,
					SourceID:     log.ID,
					Name:         name,
					Status:       status,
					ErrorMessage: errorMessage,
				})
				if err != nil {
					return err
				}
				env.tracker.ItemDone(name, status)
			}
			return nil
		},
	}
}

func todoItemsCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryTodoItems,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			todos, err := env.household.ListTodoItems(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(todos))
			for _, todo := range todos {
				items = append(items, transferItem{
					sourceID: todo.ID,
					name:     todo.Description,
					dupeKey:  dupeKey(todo.Description),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateTodoItemRequest, cloud.CreatedResponse](ctx, env.client, "todo-items", cloud.CreateTodoItemRequest{
							Description: todo.Description,
							DueAt:       todo.DueAt,
							Done:        todo.Done,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteTodoItem](ctx, env.client, "todo-items")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Description)] = r.ID
			}
			return existing, nil
		},
	}
}

func shoppingListCategory() categoryDescriptor {
	return categoryDescriptor{
		name:      household.CategoryShoppingList,
		dependsOn: []string{household.CategoryProducts},
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			list, err := env.household.ListShoppingListItems(ctx)
			if err != nil {
				return nil, err
			}
			productIDs, err := env.depMap(ctx, household.CategoryProducts)
			if err != nil {
				return nil, err
			}

			items := make([]transferItem, 0, len(list))
			for _, entry := range list {
				items = append(items, transferItem{
					sourceID: entry.ID,
					name:     entry.DisplayName(),
					dupeKey:  dupeKey(entry.Note, deref(remapID(productIDs, entry.ProductID))),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateShoppingListItemRequest, cloud.CreatedResponse](ctx, env.client, "shopping-list", cloud.CreateShoppingListItemRequest{
							Note:      entry.Note,
							Amount:    entry.Amount,
							ProductID: remapID(productIDs, entry.ProductID),
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteShoppingListItem](ctx, env.client, "shopping-list")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Note, deref(r.ProductID))] = r.ID
			}
			return existing, nil
		},
	}
}

func storageBinsCategory() categoryDescriptor {
	return categoryDescriptor{
		name:      household.CategoryStorageBins,
		dependsOn: []string{household.CategoryLocations},
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			bins, err := env.household.ListStorageBins(ctx)
			if err != nil {
				return nil, err
			}
			locationIDs, err := env.depMap(ctx, household.CategoryLocations)
			if err != nil {
				return nil, err
			}

			items := make([]transferItem, 0, len(bins))
			for _, bin := range bins {
				items = append(items, transferItem{
					sourceID: bin.ID,
					name:     bin.Name,
					dupeKey:  dupeKey(bin.Name),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateStorageBinRequest, cloud.CreatedResponse](ctx, env.client, "storage-bins", cloud.CreateStorageBinRequest{
							Name:       bin.Name,
							LocationID: remapID(locationIDs, bin.LocationID),
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteStorageBin](ctx, env.client, "storage-bins")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Name)] = r.ID
			}
			return existing, nil
		},
	}
}

// homeProfileCategory transfers the singleton home profile as an
// update-or-create against a fixed endpoint. It still funnels through the
// ledger keyed by the profile's local id so repeated runs don't resend it.
func homeProfileCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryHomeProfile,
		run: func(ctx context.Context, env *runEnv) error {
			profile, err := env.household.HomeProfile(ctx)
			if err != nil {
				return err
			}
			if profile == nil {
				env.tracker.StartCategory(household.CategoryHomeProfile, 0)
				return nil
			}

			prior, err := env.ledger.CategoryLogs(ctx, env.session.ID, household.CategoryHomeProfile)
			if err != nil {
				return err
			}

			env.tracker.StartCategory(household.CategoryHomeProfile, 1)
			if len(prior) > 0 {
				env.tracker.ItemDone(prior[0].Name, prior[0].Status)
				return nil
			}
			if err := ctx.Err(); err != nil {
				return errors.WithStack(err)
			}

			resp, putErr := cloud.Put[cloud.UpsertHomeProfileRequest, cloud.CreatedResponse](ctx, env.client, "home", cloud.UpsertHomeProfileRequest{
				Name:      profile.Name,
				Address:   profile.Address,
				MovedInAt: profile.MovedInAt,
			})
			if putErr != nil {
				if ctx.Err() != nil {
					return errors.WithStack(ctx.Err())
				}
				msg := remoteMessage(putErr)
				err := env.ledger.AppendItemLog(ctx, &models.TransferItemLog{
					SessionID:    env.session.ID,
					Category:     household.CategoryHomeProfile,
					SourceID:     profile.ID,
					Name:         profile.Name,
					Status:       models.TransferItemFailed,
					ErrorMessage: &msg,
				})
				if err != nil {
					return err
				}
				env.tracker.ItemDone(profile.Name, models.TransferItemFailed)
				return nil
			}

			var remoteID *string
			if resp.ID != "" {
				remoteID = &resp.ID
			}
			err = env.ledger.AppendItemLog(ctx, &models.TransferItemLog{
				SessionID: env.session.ID,
				Category:  household.CategoryHomeProfile,
				SourceID:  profile.ID,
				RemoteID:  remoteID,
				Name:      profile.Name,
				Status:    models.TransferItemCreated,
			})
			if err != nil {
				return err
			}
			env.tracker.ItemDone(profile.Name, models.TransferItemCreated)

			for _, utility := range profile.Utilities {
				_, err := cloud.Post[cloud.CreateHomeUtilityRequest, cloud.CreatedResponse](ctx, env.client, "home/utilities", cloud.CreateHomeUtilityRequest{
					Name:          utility.Name,
					Provider:      utility.Provider,
					AccountNumber: utility.AccountNumber,
				})
				if err != nil {
					msg := remoteMessage(err)
					err = env.ledger.AppendItemLog(ctx, &models.TransferItemLog{
						SessionID:    env.session.ID,
						Category:     household.CategoryHomeProfile + "/utilities",
						SourceID:     utility.ID,
						Name:         utility.Name,
						Status:       models.TransferItemFailed,
						ErrorMessage: &msg,
					})
					if err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
}

func calendarEventsCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryCalendarEvents,
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			events, err := env.household.ListCalendarEvents(ctx)
			if err != nil {
				return nil, err
			}
			items := make([]transferItem, 0, len(events))
			for _, event := range events {
				items = append(items, transferItem{
					sourceID: event.ID,
					name:     event.Title,
					dupeKey:  dupeKey(event.Title, event.StartsAt.UTC().Format(time.RFC3339)),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateCalendarEventRequest, cloud.CreatedResponse](ctx, env.client, "calendar-events", cloud.CreateCalendarEventRequest{
							Title:       event.Title,
							Description: event.Description,
							StartsAt:    event.StartsAt,
							EndsAt:      event.EndsAt,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteCalendarEvent](ctx, env.client, "calendar-events")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[dupeKey(r.Title, r.StartsAt.UTC().Format(time.RFC3339))] = r.ID
			}
			return existing, nil
		},
	}
}

func stockCategory() categoryDescriptor {
	return categoryDescriptor{
		name: household.CategoryStock,
		dependsOn: []string{
			household.CategoryProducts,
			household.CategoryLocations,
		},
		load: func(ctx context.Context, env *runEnv) ([]transferItem, error) {
			entries, err := env.household.ListStockEntries(ctx)
			if err != nil {
				return nil, err
			}
			productIDs, err := env.depMap(ctx, household.CategoryProducts)
			if err != nil {
				return nil, err
			}
			locationIDs, err := env.depMap(ctx, household.CategoryLocations)
			if err != nil {
				return nil, err
			}

			items := make([]transferItem, 0, len(entries))
			for _, entry := range entries {
				name := "stock entry"
				if entry.Product != nil {
					name = entry.Product.Name
				}
				items = append(items, transferItem{
					sourceID: entry.ID,
					name:     name,
					dupeKey:  stockDupeKey(remapRequiredID(productIDs, entry.ProductID), entry.Amount, entry.BestBeforeDate),
					create: func(ctx context.Context) (string, error) {
						resp, err := cloud.Post[cloud.CreateStockEntryRequest, cloud.CreatedResponse](ctx, env.client, "stock", cloud.CreateStockEntryRequest{
							ProductID:      remapRequiredID(productIDs, entry.ProductID),
							LocationID:     remapID(locationIDs, entry.LocationID),
							Amount:         entry.Amount,
							BestBeforeDate: entry.BestBeforeDate,
						})
						return resp.ID, err
					},
				})
			}
			return items, nil
		},
		existing: func(ctx context.Context, env *runEnv) (map[string]string, error) {
			remote, err := cloud.Get[[]cloud.RemoteStockEntry](ctx, env.client, "stock")
			if err != nil {
				return nil, err
			}
			existing := make(map[string]string, len(remote))
			for _, r := range remote {
				existing[stockDupeKey(r.ProductID, r.Amount, r.BestBeforeDate)] = r.ID
			}
			return existing, nil
		},
	}
}

func vehicleDupeKey(name string, licensePlate *string) string {
	return dupeKey(name, deref(licensePlate))
}

// stockDupeKey identifies a stock entry by its remote product reference,
// amount, and best-before date. Stock has no name, so this tuple is the
// closest thing to a natural key.
func stockDupeKey(productID *string, amount float64, bestBefore *time.Time) string {
	date := ""
	if bestBefore != nil {
		date = bestBefore.UTC().Format("2006-01-02")
	}
	return dupeKey("stock", deref(productID), strconv.FormatFloat(amount, 'f', -1, 64), date)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
